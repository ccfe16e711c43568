package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"go.opentelemetry.io/otel/attribute"
)

// ExitError is returned by Exec when the command ran but exited non-zero.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return fmt.Sprintf("exit status %d: %s", e.Code, out)
}

// ErrNoCommand is returned by Exec for an empty argv.
var ErrNoCommand = errors.New("no command")

// Exec runs argv inside container id without a TTY and returns the combined
// stdout and stderr. A non-zero exit status is reported as *ExitError.
func (c *Client) Exec(ctx context.Context, id string, argv []string) (_ string, err error) {
	ctx, span := c.span(ctx, "container_exec",
		attribute.String("docker.container", id),
		attribute.String("docker.exec.command", strings.Join(argv, " ")),
	)
	defer func() { end(span, err) }()

	if len(argv) == 0 {
		return "", ErrNoCommand
	}

	created, err := c.api.ContainerExecCreate(ctx, id, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          argv,
	})
	if err != nil {
		return "", fmt.Errorf("exec create: %w", err)
	}

	attach, err := c.api.ContainerExecAttach(ctx, created.ID, container.ExecStartOptions{})
	if err != nil {
		return "", fmt.Errorf("exec attach: %w", err)
	}
	defer attach.Close()

	output, err := readStream(ctx, attach.Reader, attach.Close)
	if err != nil {
		return output, fmt.Errorf("exec read: %w", err)
	}

	inspect, err := c.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return output, fmt.Errorf("exec inspect: %w", err)
	}
	span.SetAttributes(attribute.Int("docker.exec.exit_code", inspect.ExitCode))
	if inspect.ExitCode != 0 {
		return output, &ExitError{Code: inspect.ExitCode, Output: output}
	}
	return output, nil
}

// readStream demultiplexes a non-TTY exec stream. The hijacked connection
// ignores ctx, so cancellation closes it to unblock the copy.
func readStream(ctx context.Context, r io.Reader, closeFn func()) (string, error) {
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := stdcopy.StdCopy(&buf, &buf, r)
		done <- err
	}()

	select {
	case err := <-done:
		return buf.String(), err
	case <-ctx.Done():
		closeFn()
		<-done
		return buf.String(), ctx.Err()
	}
}
