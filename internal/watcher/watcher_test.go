package watcher

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - New succeeds for a valid root, fails for a missing one
// - Single .py change fires the callback after the debounce window
// - Rapid changes to multiple files are coalesced into one batch
// - Non-Python files never trigger the callback
// - Changes inside excluded directories are ignored
// - A directory created after Start is watched recursively
// - Stop is idempotent and safe to call concurrently
// - Context cancellation stops the event loop

const callbackWait = 5 * time.Second

type recorder struct {
	mu      sync.Mutex
	batches [][]string
	fired   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) lastBatch(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(callbackWait):
		t.Fatal("callback was not invoked in time")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func (r *recorder) assertQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-r.fired:
		t.Fatal("callback fired unexpectedly")
	case <-time.After(d):
	}
}

func startWatcher(t *testing.T, root string, excludes []string) (*Watcher, *recorder) {
	t.Helper()
	w, err := New(root, excludes)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))
	return w, rec
}

func TestNew_MissingRoot(t *testing.T) {
	t.Parallel()

	w, err := New(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestWatcher_SingleChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, rec := startWatcher(t, root, nil)

	target := filepath.Join(root, "main.py")
	require.NoError(t, os.WriteFile(target, []byte("import os\n"), 0o644))

	batch := rec.lastBatch(t)
	assert.Contains(t, batch, target)
}

func TestWatcher_BatchesRapidChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, rec := startWatcher(t, root, nil)

	a := filepath.Join(root, "a.py")
	b := filepath.Join(root, "b.py")
	require.NoError(t, os.WriteFile(a, []byte("import os\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("import sys\n"), 0o644))

	batch := rec.lastBatch(t)
	assert.Contains(t, batch, a)
	assert.Contains(t, batch, b)
}

func TestWatcher_IgnoresNonPython(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, rec := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0o644))

	rec.assertQuiet(t, 2*DefaultDebounce)
}

func TestWatcher_IgnoresExcludedDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	venv := filepath.Join(root, ".venv")
	require.NoError(t, os.MkdirAll(venv, 0o755))

	_, rec := startWatcher(t, root, []string{".venv"})

	require.NoError(t, os.WriteFile(filepath.Join(venv, "six.py"), []byte("import os\n"), 0o644))

	rec.assertQuiet(t, 2*DefaultDebounce)
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "darwin" {
		t.Skip("directory creation events are flaky on macOS CI")
	}

	root := t.TempDir()
	_, rec := startWatcher(t, root, nil)

	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)

	target := filepath.Join(sub, "util.py")
	require.NoError(t, os.WriteFile(target, []byte("import os\n"), 0o644))

	batch := rec.lastBatch(t)
	assert.Contains(t, batch, target)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, _ := startWatcher(t, root, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Stop()
		}()
	}
	wg.Wait()
}

func TestWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, err := New(root, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	rec := newRecorder()
	require.NoError(t, w.Start(ctx, rec.callback))

	cancel()
	// After cancellation the event loop exits, so Stop returns promptly.
	require.NoError(t, w.Stop())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
