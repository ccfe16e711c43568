package docker

import (
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/volume"
)

// Container is one row of the containers pane.
type Container struct {
	ID      string
	Name    string
	Image   string
	State   string // running, exited, paused, ...
	Status  string // human status from the daemon, e.g. "Up 3 hours"
	Created time.Time
	Labels  map[string]string
	Ports   []Port
}

// Port is a published or exposed container port.
type Port struct {
	IP      string
	Private uint16
	Public  uint16
	Type    string
}

func (c Container) Key() string         { return c.ID }
func (c Container) FilterValue() string { return c.Name + " " + c.Image }

// Paused reports whether the container is paused.
func (c Container) Paused() bool { return c.State == "paused" }

// Image is one row of the images pane.
type Image struct {
	ID      string
	Name    string
	Tag     string
	Size    int64
	Created time.Time
	Labels  map[string]string
}

func (i Image) Key() string         { return i.ID }
func (i Image) FilterValue() string { return i.Name + ":" + i.Tag }

// Volume is one row of the volumes pane. Volumes are keyed by name.
type Volume struct {
	Name       string
	Driver     string
	Scope      string
	Mountpoint string
	CreatedAt  string
	Labels     map[string]string
	Options    map[string]string
}

func (v Volume) Key() string         { return v.Name }
func (v Volume) FilterValue() string { return v.Name }

func toContainer(s container.Summary) Container {
	c := Container{
		ID:      s.ID,
		Name:    containerName(s.Names),
		Image:   s.Image,
		State:   s.State,
		Status:  s.Status,
		Created: time.Unix(s.Created, 0),
		Labels:  s.Labels,
	}
	for _, p := range s.Ports {
		c.Ports = append(c.Ports, Port{IP: p.IP, Private: p.PrivatePort, Public: p.PublicPort, Type: p.Type})
	}
	sort.Slice(c.Ports, func(i, j int) bool {
		if c.Ports[i].Private != c.Ports[j].Private {
			return c.Ports[i].Private < c.Ports[j].Private
		}
		return c.Ports[i].IP < c.Ports[j].IP
	})
	return c
}

func toImage(s image.Summary) Image {
	img := Image{
		ID:      s.ID,
		Name:    "<none>",
		Tag:     "<none>",
		Size:    s.Size,
		Created: time.Unix(s.Created, 0),
		Labels:  s.Labels,
	}
	if len(s.RepoTags) > 0 {
		img.Name, img.Tag = splitRepoTag(s.RepoTags[0])
	} else if len(s.RepoDigests) > 0 {
		name, _, _ := strings.Cut(s.RepoDigests[0], "@")
		img.Name = name
	}
	return img
}

func toVolume(v *volume.Volume) Volume {
	return Volume{
		Name:       v.Name,
		Driver:     v.Driver,
		Scope:      v.Scope,
		Mountpoint: v.Mountpoint,
		CreatedAt:  v.CreatedAt,
		Labels:     v.Labels,
		Options:    v.Options,
	}
}

// containerName extracts a clean name from Docker's name list.
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	// Docker prefixes names with "/", strip it.
	return strings.TrimPrefix(names[0], "/")
}

// splitRepoTag splits "registry:5000/app:1.2" into ("registry:5000/app", "1.2").
// A colon before the last slash belongs to the registry host.
func splitRepoTag(ref string) (name, tag string) {
	i := strings.LastIndex(ref, ":")
	if i < 0 || i < strings.LastIndex(ref, "/") {
		return ref, "latest"
	}
	return ref[:i], ref[i+1:]
}

// ShortID trims the digest prefix and truncates to 12 characters, the way
// the docker CLI prints ids.
func ShortID(id string) string {
	if _, rest, ok := strings.Cut(id, ":"); ok {
		id = rest
	}
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
