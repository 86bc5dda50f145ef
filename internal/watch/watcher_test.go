package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/content"
)

type call struct {
	trigger string
	docs    int
}

func newWatcher(t *testing.T, dir string, calls chan<- call) *Watcher {
	t.Helper()
	w, err := New(Options{
		Dir:      dir,
		Debounce: 20 * time.Millisecond,
		OnChange: func(_ context.Context, ix *content.Index, trigger string) error {
			calls <- call{trigger: trigger, docs: ix.Len()}
			return nil
		},
	})
	require.NoError(t, err)
	return w
}

func writeFile(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func expectCall(t *testing.T, calls <-chan call) call {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
		return call{}
	}
}

func expectNoCall(t *testing.T, calls <-chan call) {
	t.Helper()
	select {
	case c := <-calls:
		t.Fatalf("unexpected rebuild: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNew_RequiresCallback(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir()})
	require.Error(t, err)
}

func TestRescan_OnlyOnFingerprintChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	calls := make(chan call, 10)
	w := newWatcher(t, dir, calls)
	defer w.watcher.Close()
	ctx := context.Background()

	w.rescan(ctx, TriggerInitial)
	assert.Equal(t, call{TriggerInitial, 1}, expectCall(t, calls))

	w.rescan(ctx, TriggerRescan)
	expectNoCall(t, calls)

	writeFile(t, filepath.Join(dir, "b.md"), "# B\n")
	w.rescan(ctx, TriggerRescan)
	assert.Equal(t, call{TriggerRescan, 2}, expectCall(t, calls))
}

func TestRescan_ScanErrorKeepsState(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	calls := make(chan call, 10)
	w := newWatcher(t, dir, calls)
	defer w.watcher.Close()
	ctx := context.Background()

	w.rescan(ctx, TriggerInitial)
	expectCall(t, calls)

	writeFile(t, filepath.Join(dir, "dup.md"), "---\nid: a\n---\n# Also A\n")
	w.rescan(ctx, TriggerRescan)
	expectNoCall(t, calls)

	require.NoError(t, os.Remove(filepath.Join(dir, "dup.md")))
	w.rescan(ctx, TriggerRescan)
	expectNoCall(t, calls)
}

func TestRescan_SkippedDocRebuildsOnceFixed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	calls := make(chan call, 10)
	w := newWatcher(t, dir, calls)
	defer w.watcher.Close()
	ctx := context.Background()

	w.rescan(ctx, TriggerInitial)
	expectCall(t, calls)

	writeFile(t, filepath.Join(dir, "b.md"), "---\ntitle: B\n")
	w.rescan(ctx, TriggerRescan)
	expectNoCall(t, calls)

	writeFile(t, filepath.Join(dir, "b.md"), "---\ntitle: B\n---\n")
	w.rescan(ctx, TriggerRescan)
	assert.Equal(t, call{TriggerRescan, 2}, expectCall(t, calls))
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t, dir, make(chan call, 1))
	defer w.watcher.Close()

	ev := func(rel string, op fsnotify.Op) fsnotify.Event {
		return fsnotify.Event{Name: filepath.Join(w.opts.Dir, rel), Op: op}
	}
	assert.True(t, w.relevant(ev("a.md", fsnotify.Write)))
	assert.True(t, w.relevant(ev("tutorial/a.md", fsnotify.Create)))
	assert.False(t, w.relevant(ev("a.md", fsnotify.Chmod)))
	assert.False(t, w.relevant(ev(".a.md.swp", fsnotify.Write)))
	assert.False(t, w.relevant(ev("_partials/x.md", fsnotify.Write)))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(filepath.Dir(w.opts.Dir), "x.md"), Op: fsnotify.Write}))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	calls := make(chan call, 10)
	w := newWatcher(t, dir, calls)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Equal(t, call{TriggerInitial, 1}, expectCall(t, calls))

	writeFile(t, filepath.Join(dir, "a.md"), "# A changed\n")
	assert.Equal(t, call{TriggerFSNotify, 1}, expectCall(t, calls))

	// a new sub directory is picked up and watched
	writeFile(t, filepath.Join(dir, "sub", "b.md"), "# B\n")
	assert.Equal(t, 2, expectCall(t, calls).docs)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_PeriodicRescan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	calls := make(chan call, 10)
	w := newWatcher(t, dir, calls)
	w.opts.Debounce = time.Hour // only rescans can trigger a rebuild
	w.opts.RescanInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	expectCall(t, calls)

	w.requestRescan()
	expectNoCall(t, calls)

	writeFile(t, filepath.Join(dir, "a.md"), "# A changed\n")
	w.requestRescan()
	assert.Equal(t, call{TriggerRescan, 1}, expectCall(t, calls))
}
