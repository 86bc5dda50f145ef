// Package watch re-runs a callback when the docs directory changes. Events are
// debounced and a rebuild only happens when a document fingerprint changed,
// so editor save storms and touch-only writes are ignored.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Triggers passed to the change callback.
const (
	TriggerInitial  = "initial"
	TriggerFSNotify = "fsnotify"
	TriggerRescan   = "rescan"
)

// ChangeFunc receives a fresh index whenever the content changed.
type ChangeFunc func(ctx context.Context, ix *content.Index, trigger string) error

// Options configures a Watcher.
type Options struct {
	Dir            string
	Debounce       time.Duration
	RescanInterval time.Duration // 0 disables the periodic rescan
	Recorder       metrics.Recorder
	OnChange       ChangeFunc
}

// Watcher monitors the docs directory.
type Watcher struct {
	opts         Options
	watcher      *fsnotify.Watcher
	scheduler    gocron.Scheduler
	rescanChan   chan struct{}
	fingerprints map[string]string
}

// New creates a watcher for opts.Dir. Call Run to start it.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docs path: %w", err)
	}
	opts.Dir = absDir

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		opts:       opts,
		watcher:    watcher,
		rescanChan: make(chan struct{}, 1),
	}, nil
}

// Run performs an initial build, then watches until ctx is done. Errors from
// the callback are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(w.opts.Dir); err != nil {
		return fmt.Errorf("failed to watch docs directory %s: %w", w.opts.Dir, err)
	}
	if err := w.startScheduler(); err != nil {
		return err
	}
	if w.scheduler != nil {
		defer func() {
			if err := w.scheduler.Shutdown(); err != nil {
				slog.Error("Error stopping rescan scheduler", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching docs directory", logfields.Path(w.opts.Dir),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("rescan_interval", w.opts.RescanInterval))
	w.rescan(ctx, TriggerInitial)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping docs watcher")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Docs change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) {
				// New directories must be added explicitly; fsnotify is not recursive.
				_ = w.addTree(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.rescan(ctx, TriggerFSNotify)
		case <-w.rescanChan:
			w.rescan(ctx, TriggerRescan)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Docs watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) startScheduler() error {
	if w.opts.RescanInterval <= 0 {
		return nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := s.NewJob(
		gocron.DurationJob(w.opts.RescanInterval),
		gocron.NewTask(w.requestRescan),
		gocron.WithName("docs-rescan"),
	); err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create rescan job: %w", err)
	}
	s.Start()
	w.scheduler = s
	return nil
}

// requestRescan is called by gocron. The rescan itself runs on the Run loop.
func (w *Watcher) requestRescan() {
	select {
	case w.rescanChan <- struct{}{}:
	default:
		// Rescan already pending
	}
}

// relevant drops chmod-only events and hidden or partial files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.opts.Dir, event.Name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." {
			continue
		}
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") {
			return false
		}
	}
	return true
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

// rescan indexes the docs directory and invokes the callback when any
// fingerprint differs from the previous scan.
func (w *Watcher) rescan(ctx context.Context, trigger string) {
	start := time.Now()
	ix, err := content.Scan(w.opts.Dir)
	if err != nil {
		slog.ErrorContext(ctx, "Docs scan failed", logfields.Error(err))
		return
	}
	fps := ix.Fingerprints()
	if trigger != TriggerInitial && maps.Equal(fps, w.fingerprints) {
		slog.DebugContext(ctx, "No content change", slog.String("trigger", trigger))
		return
	}
	w.fingerprints = fps
	if trigger != TriggerInitial {
		w.opts.Recorder.IncRebuild(trigger)
	}

	slog.InfoContext(ctx, "Rebuilding", slog.String("trigger", trigger), logfields.Count(ix.Len()))
	if err := w.opts.OnChange(ctx, ix, trigger); err != nil {
		slog.ErrorContext(ctx, "Rebuild failed", logfields.Error(err),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
}
