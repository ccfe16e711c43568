// Package docker adapts the Docker Engine API to the entity types shown in
// the dashboard and the container actions the dashboard can run.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer Docker API spans are recorded under.
const TracerName = "github.com/thobiasn/opendocker/internal/docker"

// Client talks to a Docker daemon.
type Client struct {
	api    *client.Client
	tracer trace.Tracer
}

// NewClient connects to host, or to the daemon named by the DOCKER_*
// environment when host is empty. API calls are traced with tracer; nil uses
// the global provider.
func NewClient(host string, tracer trace.Tracer) (*Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	c, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &Client{api: c, tracer: tracer}, nil
}

// Close closes the Docker client.
func (c *Client) Close() error {
	return c.api.Close()
}

// Host returns the daemon address in use.
func (c *Client) Host() string {
	return c.api.DaemonHost()
}

func (c *Client) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "docker."+name, trace.WithAttributes(attrs...))
}

// end records err on span and ends it.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ListContainers returns all containers, running or not, in daemon order.
func (c *Client) ListContainers(ctx context.Context) (_ []Container, err error) {
	ctx, span := c.span(ctx, "container_list")
	defer func() { end(span, err) }()

	list, err := c.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}
	out := make([]Container, 0, len(list))
	for _, s := range list {
		out = append(out, toContainer(s))
	}
	span.SetAttributes(attribute.Int("docker.count", len(out)))
	return out, nil
}

// ListImages returns the top-level images in daemon order.
func (c *Client) ListImages(ctx context.Context) (_ []Image, err error) {
	ctx, span := c.span(ctx, "image_list")
	defer func() { end(span, err) }()

	list, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("image list: %w", err)
	}
	out := make([]Image, 0, len(list))
	for _, s := range list {
		out = append(out, toImage(s))
	}
	span.SetAttributes(attribute.Int("docker.count", len(out)))
	return out, nil
}

// ListVolumes returns all volumes in daemon order.
func (c *Client) ListVolumes(ctx context.Context) (_ []Volume, err error) {
	ctx, span := c.span(ctx, "volume_list")
	defer func() { end(span, err) }()

	resp, err := c.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("volume list: %w", err)
	}
	out := make([]Volume, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		if v == nil {
			continue
		}
		out = append(out, toVolume(v))
	}
	span.SetAttributes(attribute.Int("docker.count", len(out)))
	return out, nil
}

// Stop stops a container using the daemon's default grace period.
func (c *Client) Stop(ctx context.Context, id string) (err error) {
	ctx, span := c.span(ctx, "container_stop", attribute.String("docker.container", id))
	defer func() { end(span, err) }()

	if err := c.api.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("stop %s: %w", ShortID(id), err)
	}
	return nil
}

// Restart restarts a container using the daemon's default grace period.
func (c *Client) Restart(ctx context.Context, id string) (err error) {
	ctx, span := c.span(ctx, "container_restart", attribute.String("docker.container", id))
	defer func() { end(span, err) }()

	if err := c.api.ContainerRestart(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("restart %s: %w", ShortID(id), err)
	}
	return nil
}

// Pause freezes every process in a container.
func (c *Client) Pause(ctx context.Context, id string) (err error) {
	ctx, span := c.span(ctx, "container_pause", attribute.String("docker.container", id))
	defer func() { end(span, err) }()

	if err := c.api.ContainerPause(ctx, id); err != nil {
		return fmt.Errorf("pause %s: %w", ShortID(id), err)
	}
	return nil
}

// Unpause resumes a paused container.
func (c *Client) Unpause(ctx context.Context, id string) (err error) {
	ctx, span := c.span(ctx, "container_unpause", attribute.String("docker.container", id))
	defer func() { end(span, err) }()

	if err := c.api.ContainerUnpause(ctx, id); err != nil {
		return fmt.Errorf("unpause %s: %w", ShortID(id), err)
	}
	return nil
}
