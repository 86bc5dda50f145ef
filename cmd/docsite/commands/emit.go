package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/emit"
	"git.home.luguber.info/inful/docsite/internal/hugo"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/validate"
)

// EmitCmd implements the 'emit' command.
type EmitCmd struct {
	Output string   `short:"o" help:"Output directory (overrides output.directory)"`
	Format []string `short:"f" help:"Formats to write (json, yaml); repeatable" enum:"json,yaml"`
	Hugo   bool     `help:"Also write hugo.yaml"`
	Clean  bool     `help:"Remove generated files of formats not selected"`
}

func (e *EmitCmd) Run(g *Global, root *CLI) (err error) {
	ctx := context.Background()
	start := time.Now()
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	defer func() { err = g.finish(ctx, "emit", start, err, false) }()

	s, m := siteData()
	if err := append(validate.Site(s), validate.Manifest(m)...).Err(); err != nil {
		return err
	}

	written, err := emit.Run(ctx, e.options(cfg, s, m, docTitles(ctx, cfg.Content.Dir), g))
	for _, p := range written {
		_, _ = fmt.Fprintln(g.Stdout, p)
	}
	return err
}

// options merges flags over the tool configuration.
func (e *EmitCmd) options(cfg *config.Config, s *site.SiteConfig, m sidebar.Manifest, titles hugo.TitleFunc, g *Global) emit.Options {
	opts := emit.Options{
		Dir:      cfg.Output.Directory,
		Formats:  cfg.Output.Formats,
		Hugo:     cfg.Output.Hugo || e.Hugo,
		Clean:    cfg.Output.Clean || e.Clean,
		Site:     s,
		Manifest: m,
		Titles:   titles,
		Recorder: g.Recorder(),
	}
	if e.Output != "" {
		opts.Dir = e.Output
	}
	if len(e.Format) > 0 {
		opts.Formats = e.Format
	}
	return opts
}

// docTitles indexes dir for menu titles. The docs are optional for emit, so a
// failed scan only falls back to ids.
func docTitles(ctx context.Context, dir string) hugo.TitleFunc {
	ix, err := content.Scan(dir)
	if err != nil {
		slog.DebugContext(ctx, "Docs not indexed, using ids as titles", logfields.Path(dir), logfields.Error(err))
		return nil
	}
	return indexTitles(ix)
}

func indexTitles(ix *content.Index) hugo.TitleFunc {
	return func(id string) string {
		if d, ok := ix.Lookup(id); ok {
			return d.Title
		}
		return content.TitleFromID(id)
	}
}
