// Package validate checks the structural invariants of the site configuration
// and the navigation manifest. The providers never validate themselves; the
// check and emit commands run these rules before handing data to the renderer.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Severity of a single finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one rule violation. Field is a dotted path into the checked value.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Rule, i.Field, i.Message)
}

// Issues is the result of a validation run.
type Issues []Issue

// Errors returns the error-severity issues.
func (is Issues) Errors() Issues {
	var out Issues
	for _, i := range is {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err folds error-severity issues into a validation error, or returns nil.
func (is Issues) Err() error {
	errs := is.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, i := range errs {
		msgs = append(msgs, i.String())
	}
	return derrors.New(derrors.CategoryValidation, derrors.SeverityFatal,
		fmt.Sprintf("%d validation error(s)", len(errs))).
		WithContext("issues", msgs)
}

// Site validates a site configuration.
func Site(c *site.SiteConfig) Issues {
	var is Issues
	add := func(rule string, sev Severity, field, format string, args ...any) {
		is = append(is, Issue{Rule: rule, Severity: sev, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	required := []struct{ field, value string }{
		{"title", c.Title},
		{"url", c.URL},
		{"baseUrl", c.BaseURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			add("required", SeverityError, r.field, "must not be empty")
		}
	}
	if c.URL != "" && !site.IsExternal(c.URL) {
		add("url", SeverityError, "url", "%q is not an absolute http(s) URL", c.URL)
	}
	if c.BaseURL != "" && (!strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/")) {
		add("base-url", SeverityError, "baseUrl", "%q must start and end with '/'", c.BaseURL)
	}

	switch c.OnBrokenLinks {
	case "", site.BrokenLinksThrow, site.BrokenLinksWarn, site.BrokenLinksIgnore:
	default:
		add("on-broken-links", SeverityError, "onBrokenLinks", "unknown policy %q", c.OnBrokenLinks)
	}

	for i, it := range c.NavbarItems {
		field := fmt.Sprintf("navbar.items[%d]", i)
		if it.Position != site.PositionLeft && it.Position != site.PositionRight {
			add("navbar-position", SeverityError, field+".position", "%q must be left or right", it.Position)
		}
		if it.Label == "" {
			add("required", SeverityError, field+".label", "must not be empty")
		}
		checkTarget(add, field+".target", it.Target)
	}

	for gi, g := range c.FooterGroups {
		if g.Title == "" {
			add("required", SeverityWarning, fmt.Sprintf("footer.links[%d].title", gi), "group has no title")
		}
		for li, l := range g.Items {
			field := fmt.Sprintf("footer.links[%d].items[%d]", gi, li)
			if l.External && !strings.HasPrefix(l.Target, "http://") && !strings.HasPrefix(l.Target, "https://") {
				add("footer-external", SeverityError, field+".href", "external link %q must start with http:// or https://", l.Target)
				continue
			}
			if !l.External && site.IsExternal(l.Target) {
				add("footer-external", SeverityWarning, field+".to", "absolute URL %q is not marked external", l.Target)
			}
			checkTarget(add, field+".target", l.Target)
		}
	}

	if !strings.Contains(c.CopyrightTemplate, site.YearPlaceholder) {
		add("copyright", SeverityWarning, "copyrightTemplate", "template has no %s placeholder", site.YearPlaceholder)
	} else if c.Copyright != site.RenderCopyright(c.CopyrightTemplate, c.Year) {
		add("copyright", SeverityError, "copyright", "rendered copyright does not match template for year %d", c.Year)
	} else if c.Year < 1000 || c.Year > 9999 {
		add("copyright", SeverityError, "copyright", "year %d is not a 4-digit year", c.Year)
	}

	for pi, p := range c.Presets {
		field := fmt.Sprintf("presets[%d]", pi)
		if p.Name == "" {
			add("required", SeverityError, field+".name", "must not be empty")
		}
		if p.Docs != nil {
			if p.Docs.SidebarPath == "" {
				add("required", SeverityError, field+".docs.sidebarPath", "must not be empty")
			}
			if p.Docs.EditURL != "" && !site.IsExternal(p.Docs.EditURL) {
				add("edit-url", SeverityError, field+".docs.editUrl", "%q is not an absolute http(s) URL", p.Docs.EditURL)
			}
		}
		if p.Blog != nil && p.Blog.EditURL != "" && !site.IsExternal(p.Blog.EditURL) {
			add("edit-url", SeverityError, field+".blog.editUrl", "%q is not an absolute http(s) URL", p.Blog.EditURL)
		}
	}
	return is
}

// checkTarget enforces the target syntax: an absolute http(s) URL, or a
// relative path without scheme, host, or whitespace.
func checkTarget(add func(rule string, sev Severity, field, format string, args ...any), field, target string) {
	if target == "" {
		add("target", SeverityError, field, "must not be empty")
		return
	}
	u, err := url.Parse(target)
	if err != nil {
		add("target", SeverityError, field, "%q does not parse: %v", target, err)
		return
	}
	if u.Scheme != "" || u.Host != "" {
		if !site.IsExternal(target) {
			add("target", SeverityError, field, "%q is neither a relative path nor an http(s) URL", target)
		}
		return
	}
	if strings.ContainsAny(target, " \t\n") {
		add("target", SeverityError, field, "relative path %q contains whitespace", target)
	}
}

// Manifest validates a navigation manifest.
func Manifest(m sidebar.Manifest) Issues {
	var is Issues
	if m.ID == "" {
		is = append(is, Issue{Rule: "required", Severity: SeverityError, Field: "id", Message: "sidebar id must not be empty"})
	}

	labels := make(map[string]int)
	docs := make(map[string]string)
	for ci, c := range m.Categories {
		field := fmt.Sprintf("categories[%d]", ci)
		if c.Label == "" {
			is = append(is, Issue{Rule: "required", Severity: SeverityError, Field: field + ".label", Message: "must not be empty"})
		}
		if prev, dup := labels[c.Label]; dup {
			is = append(is, Issue{Rule: "unique-label", Severity: SeverityError, Field: field + ".label",
				Message: fmt.Sprintf("label %q already used by categories[%d]", c.Label, prev)})
		} else {
			labels[c.Label] = ci
		}
		if len(c.Items) == 0 {
			is = append(is, Issue{Rule: "empty-category", Severity: SeverityWarning, Field: field, Message: fmt.Sprintf("category %q has no documents", c.Label)})
		}
		for ii, id := range c.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, ii)
			if strings.TrimSpace(id) == "" {
				is = append(is, Issue{Rule: "doc-id", Severity: SeverityError, Field: itemField, Message: "document id must not be empty"})
				continue
			}
			if strings.HasPrefix(id, "/") || strings.Contains(id, "..") {
				is = append(is, Issue{Rule: "doc-id", Severity: SeverityError, Field: itemField, Message: fmt.Sprintf("document id %q must be relative to the docs directory", id)})
			}
			if prev, dup := docs[id]; dup {
				is = append(is, Issue{Rule: "duplicate-doc", Severity: SeverityWarning, Field: itemField,
					Message: fmt.Sprintf("document %q is also listed under %q", id, prev)})
			} else {
				docs[id] = c.Label
			}
		}
	}
	return is
}
