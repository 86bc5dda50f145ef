// Package hugo projects the site configuration and navigation manifest onto a
// hugo.yaml, for sites rendered with Hugo instead of the default renderer.
package hugo

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// ConfigFile is the file name Hugo reads its configuration from.
const ConfigFile = "hugo.yaml"

// Menu weights step by this amount so hand-written entries can slot in between.
const weightStep = 10

// TitleFunc resolves a document id to the title shown in the docs menu.
type TitleFunc func(docID string) string

// BuildConfig assembles the hugo.yaml root mapping. titles may be nil, in
// which case document ids are used as menu names.
func BuildConfig(cfg *site.SiteConfig, m sidebar.Manifest, titles TitleFunc) map[string]any {
	if titles == nil {
		titles = func(id string) string { return id }
	}

	// Phase 1: core fields
	params := map[string]any{
		"description": cfg.Tagline,
		"copyright":   cfg.Copyright,
		"footerStyle": cfg.FooterStyle,
	}
	root := map[string]any{
		"title":        cfg.Title,
		"baseURL":      joinBaseURL(cfg.URL, cfg.BaseURL),
		"languageCode": "en",
		"copyright":    cfg.Copyright,
		"params":       params,
	}

	// Phase 2: preset options
	if p, ok := cfg.DocsPreset(); ok && p.Docs.EditURL != "" {
		params["editURL"] = map[string]any{"enable": true, "base": p.Docs.EditURL}
	}
	for _, p := range cfg.Presets {
		if p.Theme != nil && p.Theme.CustomCSS != "" {
			params["customCss"] = []string{p.Theme.CustomCSS}
		}
		if p.Blog != nil {
			params["blog"] = map[string]any{"showReadingTime": p.Blog.ShowReadingTime}
		}
	}
	if cfg.Favicon != "" {
		params["favicon"] = cfg.Favicon
	}

	// Phase 3: menus
	root["menu"] = map[string]any{
		"main":   mainMenu(cfg),
		"footer": footerMenu(cfg),
		"docs":   docsMenu(m, titles),
	}
	return root
}

func mainMenu(cfg *site.SiteConfig) []map[string]any {
	out := make([]map[string]any, 0, len(cfg.NavbarItems))
	for i, it := range cfg.NavbarItems {
		entry := map[string]any{
			"name":   it.Label,
			"url":    menuURL(it.Target),
			"weight": (i + 1) * weightStep,
			"params": map[string]any{"position": string(it.Position)},
		}
		if site.IsExternal(it.Target) {
			entry["params"].(map[string]any)["external"] = true
		}
		out = append(out, entry)
	}
	return out
}

func footerMenu(cfg *site.SiteConfig) []map[string]any {
	var out []map[string]any
	for gi, g := range cfg.FooterGroups {
		parent := fmt.Sprintf("footer-%d", gi)
		out = append(out, map[string]any{
			"identifier": parent,
			"name":       g.Title,
			"weight":     (gi + 1) * weightStep,
		})
		for li, l := range g.Items {
			entry := map[string]any{
				"name":   l.Label,
				"url":    menuURL(l.Target),
				"parent": parent,
				"weight": (li + 1) * weightStep,
			}
			if l.External {
				p := map[string]any{"external": true}
				if l.Window != "" {
					p["target"] = l.Window
				}
				if l.Rel != "" {
					p["rel"] = l.Rel
				}
				entry["params"] = p
			}
			out = append(out, entry)
		}
	}
	return out
}

// docsMenu emits one parent per category and its documents as children.
// Identifiers must be unique within a menu, but labels and ids can slug to
// the same value and a document may be listed twice, so category identifiers
// are de-duplicated and document identifiers are "<parent>/<slug>-<index>".
// Slugs never contain "/", so the two sets cannot overlap.
func docsMenu(m sidebar.Manifest, titles TitleFunc) []map[string]any {
	var out []map[string]any
	used := make(map[string]bool, len(m.Categories))
	for ci, c := range m.Categories {
		base := "category-" + slug(c.Label)
		parent := base
		for n := ci; used[parent]; n++ {
			parent = base + "-" + strconv.Itoa(n)
		}
		used[parent] = true
		out = append(out, map[string]any{
			"identifier": parent,
			"name":       c.Label,
			"weight":     (ci + 1) * weightStep,
		})
		for di, id := range c.Items {
			out = append(out, map[string]any{
				"identifier": parent + "/" + slug(id) + "-" + strconv.Itoa(di),
				"name":       titles(id),
				"pageRef":    "/docs/" + id,
				"parent":     parent,
				"weight":     (di + 1) * weightStep,
			})
		}
	}
	return out
}

// menuURL makes relative targets site-absolute, matching how the navbar
// resolves them against baseUrl.
func menuURL(target string) string {
	if site.IsExternal(target) || strings.HasPrefix(target, "/") {
		return target
	}
	return "/" + target
}

func joinBaseURL(siteURL, baseURL string) string {
	return strings.TrimSuffix(siteURL, "/") + "/" + strings.TrimPrefix(baseURL, "/")
}

func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Marshal renders BuildConfig as YAML.
func Marshal(cfg *site.SiteConfig, m sidebar.Manifest, titles TitleFunc) ([]byte, error) {
	data, err := yaml.Marshal(BuildConfig(cfg, m, titles))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Hugo config: %w", err)
	}
	return data, nil
}
