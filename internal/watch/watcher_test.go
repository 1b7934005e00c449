package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"glossary-manager/pkg/fsutils"
)

const testDebounce = 20 * time.Millisecond

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, path string) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcher(path, testDebounce, discardLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Stop() })
	return w
}

func nextEvent(t *testing.T, w *FileWatcher) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func TestFileWatcher_AtomicReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Terms.xml")
	w := startWatcher(t, path)

	require.NoError(t, fsutils.WriteFileAtomic(path, []byte("<Terms/>")))

	ev := nextEvent(t, w)
	assert.Equal(t, OpWrite, ev.Op)
	assert.Equal(t, path, ev.Path)
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Terms.xml")
	w := startWatcher(t, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<Terms/>"), 0644))
	}

	assert.Equal(t, OpWrite, nextEvent(t, w).Op)
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(10 * testDebounce):
	}
}

func TestFileWatcher_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Terms.xml")
	require.NoError(t, os.WriteFile(path, []byte("<Terms/>"), 0644))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))

	assert.Equal(t, OpRemove, nextEvent(t, w).Op)
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "Terms.xml"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte("x"), 0644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for sibling file: %+v", ev)
	case <-time.After(10 * testDebounce):
	}
}

func TestFileWatcher_StopClosesEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewFileWatcher(filepath.Join(t.TempDir(), "Terms.xml"), testDebounce, discardLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestFileWatcher_ContextCancelStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewFileWatcher(filepath.Join(t.TempDir(), "Terms.xml"), testDebounce, discardLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
	w.Stop()
}

func TestFileWatcher_StartMissingDirectory(t *testing.T) {
	w, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "Terms.xml"), 0, discardLogger())
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}
