package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Global is shared with every subcommand through kong bindings.
type Global struct {
	RunID  string
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder
	textfile string
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Show  ShowCmd  `cmd:"" help:"Print the site configuration and sidebar"`
	Emit  EmitCmd  `cmd:"" help:"Write the renderer configuration files"`
	Check CheckCmd `cmd:"" help:"Validate the configuration and resolve sidebar entries against the docs"`
	Watch WatchCmd `cmd:"" help:"Re-run check and emit whenever the docs change"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if g.Stderr == nil {
		g.Stderr = os.Stderr
	}
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level})).
		With(logfields.RunID(g.RunID))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the tool configuration. A missing file is only an error
// when -c named it explicitly.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.Config, c.Config != config.DefaultPath)
	if err != nil {
		return nil, err
	}
	g.useMetrics(cfg)
	return cfg, nil
}

func (g *Global) useMetrics(cfg *config.Config) {
	if cfg.Metrics.Textfile == "" {
		g.recorder = metrics.NoopRecorder{}
		return
	}
	g.prom = metrics.NewPrometheusRecorder(nil)
	g.recorder = g.prom
	g.textfile = cfg.Metrics.Textfile
}

// Recorder returns the metrics recorder selected by the configuration.
func (g *Global) Recorder() metrics.Recorder {
	if g.recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.recorder
}

// finish records the outcome of a command and flushes the metrics textfile.
// It returns err unchanged.
func (g *Global) finish(ctx context.Context, command string, start time.Time, err error, warned bool) error {
	rec := g.Recorder()
	rec.ObserveRunDuration(command, time.Since(start))
	rec.IncRunOutcome(command, metrics.OutcomeFor(err, errors.Is(err, context.Canceled), warned))
	g.flushMetrics(ctx)
	return err
}

func (g *Global) flushMetrics(ctx context.Context) {
	if g.prom == nil || g.textfile == "" {
		return
	}
	if err := g.prom.WriteTextfile(g.textfile); err != nil {
		slog.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(g.textfile), logfields.Error(err))
	}
}

// siteData returns the provider values every command works from.
func siteData() (*site.SiteConfig, sidebar.Manifest) {
	cfg := site.Config()
	return &cfg, sidebar.Default()
}

// brokenLinkPolicy prefers the tool configuration's override.
func brokenLinkPolicy(cfg *config.Config, s *site.SiteConfig) site.BrokenLinkPolicy {
	if cfg.Content.OnBrokenLinks != "" {
		return site.BrokenLinkPolicy(cfg.Content.OnBrokenLinks)
	}
	return s.OnBrokenLinks
}
