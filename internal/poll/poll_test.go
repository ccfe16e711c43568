package poll

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thobiasn/opendocker/internal/state"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestPollSerialized(t *testing.T) {
	calls := 0
	p := New(state.KindContainers, func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"a"}, nil
	}, time.Millisecond, time.Second)

	cmd := p.Poll()
	require.NotNil(t, cmd)
	assert.True(t, p.InFlight())
	assert.Nil(t, p.Poll(), "second poll while in flight must be skipped")

	msg, ok := cmd().(ResultMsg[string])
	require.True(t, ok)
	assert.Equal(t, state.KindContainers, msg.Kind)
	assert.Equal(t, []string{"a"}, msg.Items)
	assert.NoError(t, msg.Err)
	assert.Equal(t, 1, calls)

	next := p.Done(msg)
	require.NotNil(t, next)
	assert.False(t, p.InFlight())

	tick, ok := next().(TickMsg)
	require.True(t, ok)
	assert.Equal(t, state.KindContainers, tick.Kind)

	assert.NotNil(t, p.Poll())
}

func TestPollAppliesTimeout(t *testing.T) {
	p := New(state.KindImages, func(ctx context.Context) ([]int, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, time.Second, 10*time.Millisecond)

	msg := p.Poll()().(ResultMsg[int])
	assert.ErrorIs(t, msg.Err, context.DeadlineExceeded)
	assert.Equal(t, state.KindImages, msg.Kind)
}

func TestDoneStats(t *testing.T) {
	p := New[string](state.KindVolumes, nil, 0, 0)
	assert.Equal(t, DefaultInterval, p.Interval())

	p.Done(ResultMsg[string]{Kind: state.KindVolumes, Elapsed: 3 * time.Millisecond})
	p.Done(ResultMsg[string]{Kind: state.KindVolumes, Err: errors.New("boom")})

	s := p.Stats()
	assert.Equal(t, 2, s.Polls)
	assert.Equal(t, 1, s.Failures)
	assert.EqualError(t, s.LastErr, "boom")
}

func TestDoneLogsOnlyChangedErrors(t *testing.T) {
	logs := captureLogs(t)
	p := New[string](state.KindContainers, nil, time.Second, time.Second)

	for range 3 {
		p.Done(ResultMsg[string]{Err: errors.New("daemon unreachable")})
	}
	assert.Equal(t, 1, strings.Count(logs.String(), "poll failed"))

	p.Done(ResultMsg[string]{Err: errors.New("permission denied")})
	assert.Equal(t, 2, strings.Count(logs.String(), "poll failed"))

	p.Done(ResultMsg[string]{})
	assert.Contains(t, logs.String(), "poll recovered")
}
