package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/validate"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Content     string `help:"Docs directory (overrides content.dir)"`
	SkipContent bool   `help:"Only validate the configuration, do not read the docs"`
	JSON        bool   `help:"Print the findings as JSON"`
}

// CheckResult is what 'check --json' prints.
type CheckResult struct {
	Issues validate.Issues `json:"issues,omitempty"`
	Report *content.Report `json:"report,omitempty"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) (err error) {
	ctx := context.Background()
	start := time.Now()
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	s, m := siteData()
	dir := cfg.Content.Dir
	if c.Content != "" {
		dir = c.Content
	}

	var res CheckResult
	defer func() {
		warned := len(res.Issues) > 0 || (res.Report != nil && !res.Report.Clean())
		err = g.finish(ctx, "check", start, err, warned)
	}()

	res.Issues, res.Report, err = runCheck(ctx, g, s, m, dir, brokenLinkPolicy(cfg, s), c.SkipContent)
	if c.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil && err == nil {
			err = encErr
		}
		return err
	}
	printCheck(g, res)
	return err
}

// runCheck validates the providers, then resolves the sidebar against dir.
// Validation errors stop before the docs are read.
func runCheck(ctx context.Context, g *Global, s *site.SiteConfig, m sidebar.Manifest, dir string, policy site.BrokenLinkPolicy, skipContent bool) (validate.Issues, *content.Report, error) {
	issues := append(validate.Site(s), validate.Manifest(m)...)
	for _, i := range issues {
		level := slog.LevelWarn
		if i.Severity == validate.SeverityError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, i.Message, slog.String("rule", i.Rule), slog.String("field", i.Field))
	}
	if err := issues.Err(); err != nil {
		return issues, nil, err
	}
	if skipContent {
		return issues, nil, nil
	}

	ix, err := content.Scan(dir)
	if err != nil {
		return issues, nil, err
	}
	for _, d := range ix.Docs() {
		slog.DebugContext(ctx, "Indexed document", logfields.DocID(d.ID), logfields.Path(d.Path), slog.String("title", d.Title))
	}
	rec := g.Recorder()
	report, err := content.Check(ctx, ix, m, policy)
	rec.SetDocuments(report.Docs)
	rec.SetUnresolved(len(report.Unresolved))
	rec.SetBrokenLinks(len(report.BrokenLinks))
	slog.InfoContext(ctx, "Checked docs",
		logfields.Path(dir),
		logfields.Sidebar(m.ID),
		logfields.Count(report.Docs),
		slog.Int("unresolved", len(report.Unresolved)),
		slog.Int("broken_links", len(report.BrokenLinks)),
		slog.Int("skipped", len(report.Skipped)))
	return issues, &report, err
}

func printCheck(g *Global, res CheckResult) {
	for _, i := range res.Issues {
		_, _ = fmt.Fprintln(g.Stdout, i.String())
	}
	if res.Report == nil {
		return
	}
	for _, u := range res.Report.Unresolved {
		_, _ = fmt.Fprintf(g.Stdout, "unresolved %s: %s\n", u.Category, u.DocID)
	}
	for _, b := range res.Report.BrokenLinks {
		_, _ = fmt.Fprintf(g.Stdout, "broken link %s -> %s\n", b.Source, b.Destination)
	}
	for _, sk := range res.Report.Skipped {
		_, _ = fmt.Fprintf(g.Stdout, "skipped %s: %s\n", sk.Path, sk.Reason)
	}
	_, _ = fmt.Fprintf(g.Stdout, "%d documents, %d unresolved, %d broken links\n",
		res.Report.Docs, len(res.Report.Unresolved), len(res.Report.BrokenLinks))
}
