package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purgerStub struct {
	cutoff  time.Time
	removed int64
	calls   int
}

func (p *purgerStub) DeleteAnonymousOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	p.calls++
	p.cutoff = cutoff
	return p.removed, nil
}

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	if age > 0 {
		old := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, old, old))
	}
	return path
}

func TestJanitor_SweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := touch(t, dir, "stale.pdf", 2*time.Hour)
	fresh := touch(t, dir, "fresh.pdf", 0)

	j := NewJanitor(Config{Dir: dir, MaxAge: time.Hour}, nil, nil)
	removed := j.sweep()

	assert.Equal(t, 1, removed)
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestJanitor_SweepSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	require.NoError(t, os.Mkdir(sub, 0o755))
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(sub, old, old))

	j := NewJanitor(Config{Dir: dir, MaxAge: time.Hour}, nil, nil)
	assert.Zero(t, j.sweep())

	info, err := os.Stat(sub)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestJanitor_SweepMissingDirIsHarmless(t *testing.T) {
	j := NewJanitor(Config{Dir: filepath.Join(t.TempDir(), "gone")}, nil, nil)
	assert.Zero(t, j.sweep())
}

func TestJanitor_PurgeUsesRetentionCutoff(t *testing.T) {
	stub := &purgerStub{removed: 4}
	j := NewJanitor(Config{Dir: t.TempDir(), RetentionDays: 30}, stub, nil)

	j.purge()

	assert.Equal(t, 1, stub.calls)
	want := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, want, stub.cutoff, time.Minute)
}

func TestJanitor_StartStop(t *testing.T) {
	j := NewJanitor(Config{Dir: t.TempDir(), RetentionDays: 7}, &purgerStub{}, nil)
	require.NoError(t, j.Start())
	j.Stop()
}
