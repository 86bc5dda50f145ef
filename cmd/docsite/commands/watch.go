package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/emit"
	"git.home.luguber.info/inful/docsite/internal/validate"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	EmitCmd `embed:""`

	Content string `help:"Docs directory (overrides content.dir)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	s, m := siteData()
	if err := append(validate.Site(s), validate.Manifest(m)...).Err(); err != nil {
		return err
	}
	dir := cfg.Content.Dir
	if w.Content != "" {
		dir = w.Content
	}
	policy := brokenLinkPolicy(cfg, s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.New(watch.Options{
		Dir:            dir,
		Debounce:       cfg.Watch.Debounce,
		RescanInterval: cfg.Watch.RescanInterval,
		Recorder:       g.Recorder(),
		OnChange: func(ctx context.Context, ix *content.Index, trigger string) error {
			start := time.Now()
			report, err := content.Check(ctx, ix, m, policy)
			rec := g.Recorder()
			rec.SetDocuments(report.Docs)
			rec.SetUnresolved(len(report.Unresolved))
			rec.SetBrokenLinks(len(report.BrokenLinks))
			if err == nil {
				_, err = emit.Run(ctx, w.options(cfg, s, m, indexTitles(ix), g))
			}
			return g.finish(ctx, "watch", start, err, !report.Clean())
		},
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
