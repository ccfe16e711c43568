package state

import "github.com/thobiasn/opendocker/internal/docker"

// Kind identifies an entity kind and the pane that lists it.
type Kind int

const (
	KindContainers Kind = iota
	KindImages
	KindVolumes
)

// Kinds lists every kind in pane order.
var Kinds = []Kind{KindContainers, KindImages, KindVolumes}

func (k Kind) String() string {
	switch k {
	case KindContainers:
		return "containers"
	case KindImages:
		return "images"
	case KindVolumes:
		return "volumes"
	}
	return "unknown"
}

// Title is the pane heading.
func (k Kind) Title() string {
	switch k {
	case KindContainers:
		return "Containers"
	case KindImages:
		return "Images"
	case KindVolumes:
		return "Volumes"
	}
	return "Unknown"
}

// selectable is the kind-independent part of List, used to dispatch by Kind.
type selectable interface {
	ActiveID() string
	SetActive(key string) bool
	Loaded() bool
	Len() int
	Move(delta int) bool
	Query() string
	SetQuery(q string)
}

// State is the application state. The zero value is not usable; call New.
type State struct {
	Containers List[docker.Container]
	Images     List[docker.Image]
	Volumes    List[docker.Volume]

	pane      Kind
	filtering bool
}

// New returns an empty state focused on the containers pane.
func New() *State {
	return &State{pane: KindContainers}
}

func (s *State) list(k Kind) selectable {
	switch k {
	case KindImages:
		return &s.Images
	case KindVolumes:
		return &s.Volumes
	default:
		return &s.Containers
	}
}

// SetContainers replaces the container list and reconciles its selection.
func (s *State) SetContainers(list []docker.Container) { s.Containers.Set(list) }

// SetImages replaces the image list and reconciles its selection.
func (s *State) SetImages(list []docker.Image) { s.Images.Set(list) }

// SetVolumes replaces the volume list and reconciles its selection.
func (s *State) SetVolumes(list []docker.Volume) { s.Volumes.Set(list) }

// ActiveID returns the active key for kind, "" when none.
func (s *State) ActiveID(k Kind) string { return s.list(k).ActiveID() }

// SetActive selects id in kind's list. Unknown ids are rejected.
func (s *State) SetActive(k Kind, id string) bool { return s.list(k).SetActive(id) }

// Loaded reports whether kind has been polled successfully at least once.
func (s *State) Loaded(k Kind) bool { return s.list(k).Loaded() }

// Len returns the number of entities of kind.
func (s *State) Len(k Kind) int { return s.list(k).Len() }

// Query returns kind's filter query.
func (s *State) Query(k Kind) string { return s.list(k).Query() }

// SetQuery sets kind's filter query.
func (s *State) SetQuery(k Kind, q string) { s.list(k).SetQuery(q) }

// Move steps the selection of the active pane.
func (s *State) Move(delta int) bool { return s.list(s.pane).Move(delta) }

// ActivePane returns the focused pane.
func (s *State) ActivePane() Kind { return s.pane }

// SetActivePane focuses k.
func (s *State) SetActivePane(k Kind) {
	switch k {
	case KindContainers, KindImages, KindVolumes:
		s.pane = k
	}
}

// CyclePane focuses the next pane: containers, images, volumes, containers.
func (s *State) CyclePane() Kind {
	s.pane = (s.pane + 1) % Kind(len(Kinds))
	return s.pane
}

// Filtering reports whether keys go to the filter input.
func (s *State) Filtering() bool { return s.filtering }

// SetFiltering toggles filter input mode.
func (s *State) SetFiltering(v bool) { s.filtering = v }
