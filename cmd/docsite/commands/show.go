package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Format string `short:"f" help:"Output format (json, yaml)" enum:"json,yaml" default:"json"`
	What   string `help:"What to print (site, sidebar, both)" enum:"site,sidebar,both" default:"both"`
}

func (s *ShowCmd) Run(g *Global, _ *CLI) error {
	cfg, manifest := siteData()

	if s.What == "site" || s.What == "both" {
		data, err := encodeSite(cfg, s.Format)
		if err != nil {
			return err
		}
		if _, err := g.Stdout.Write(data); err != nil {
			return err
		}
	}
	if s.What == "both" && s.Format == config.FormatYAML {
		_, _ = fmt.Fprintln(g.Stdout, "---")
	}
	if s.What == "sidebar" || s.What == "both" {
		data, err := encodeSidebar(manifest, s.Format)
		if err != nil {
			return err
		}
		if _, err := g.Stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func encodeSite(cfg *site.SiteConfig, format string) ([]byte, error) {
	if format == config.FormatYAML {
		return site.EncodeYAML(cfg)
	}
	return site.EncodeJSON(cfg)
}

func encodeSidebar(m sidebar.Manifest, format string) ([]byte, error) {
	if format == config.FormatYAML {
		return sidebar.EncodeYAML(m)
	}
	return sidebar.EncodeJSON(m)
}
