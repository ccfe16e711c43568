package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenWAL(t *testing.T) {
	s := testStore(t, 0)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Equal(t, DefaultLimit, s.limit)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t, 0)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	entries := []Entry{
		{Time: base, Container: "web", Command: "ls -la"},
		{Time: base.Add(time.Second), Container: "web", Command: "cat /etc/hosts", ExitCode: 1},
	}
	for _, e := range entries {
		require.NoError(t, s.Record(ctx, e))
	}

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cat /etc/hosts", got[0].Command, "newest first")
	assert.Equal(t, 1, got[0].ExitCode)
	assert.True(t, got[1].Time.Equal(base), "time = %v, want %v", got[1].Time, base)
}

func TestCommandsDistinct(t *testing.T) {
	s := testStore(t, 0)
	ctx := context.Background()

	for _, c := range []string{"ls", "env", "ls", "ps aux"} {
		require.NoError(t, s.Record(ctx, Entry{Container: "c", Command: c}))
	}

	got, err := s.Commands(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ps aux", "ls", "env"}, got)
}

func TestRecordPrunes(t *testing.T) {
	s := testStore(t, 3)
	ctx := context.Background()

	for _, c := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Record(ctx, Entry{Container: "x", Command: c}))
	}

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	var cmds []string
	for _, e := range got {
		cmds = append(cmds, e.Command)
	}
	assert.Equal(t, []string{"e", "d", "c"}, cmds)
}

func TestNilStore(t *testing.T) {
	var s *Store
	ctx := context.Background()
	assert.NoError(t, s.Record(ctx, Entry{Command: "ls"}))

	got, err := s.Commands(ctx, 5)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Close())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, "/tmp/state/opendocker/history.db", DefaultPath())
}
