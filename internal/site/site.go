// Package site holds the declarative configuration of the documentation site:
// metadata, navbar, footer, copyright and renderer presets.
//
// The canonical value is built once per process by Config and handed out as a
// deep copy, so callers may never mutate it.
package site

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// YearPlaceholder is substituted with the construction year in CopyrightTemplate.
const YearPlaceholder = "{year}"

// Position places a navbar item on one side of the navbar.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// BrokenLinkPolicy tells the renderer (and the check command) how to treat
// unresolvable links.
type BrokenLinkPolicy string

const (
	BrokenLinksThrow  BrokenLinkPolicy = "throw"
	BrokenLinksWarn   BrokenLinkPolicy = "warn"
	BrokenLinksIgnore BrokenLinkPolicy = "ignore"
)

// NavbarItem is one navbar entry. Target is an internal doc path or an absolute URL.
type NavbarItem struct {
	Target         string
	Label          string
	Position       Position
	ActiveBasePath string
}

// FooterLink is one entry of a footer group.
type FooterLink struct {
	Label    string
	Target   string
	External bool
	Window   string // browsing context, e.g. "_blank"
	Rel      string
}

// FooterGroup is a titled column of footer links.
type FooterGroup struct {
	Title string
	Items []FooterLink
}

// DocsOptions configures the docs plugin of a preset.
type DocsOptions struct {
	SidebarPath string
	EditURL     string
}

// BlogOptions configures the blog plugin of a preset.
type BlogOptions struct {
	ShowReadingTime bool
	EditURL         string
}

// ThemeOptions configures the theme of a preset.
type ThemeOptions struct {
	CustomCSS string
}

// Preset is a renderer preset together with its option mapping. Nil option
// blocks are omitted from the emitted configuration.
type Preset struct {
	Name  string
	Docs  *DocsOptions
	Blog  *BlogOptions
	Theme *ThemeOptions
}

// SiteConfig is the full site configuration handed to the renderer.
type SiteConfig struct {
	Title            string
	Tagline          string
	URL              string
	BaseURL          string
	Favicon          string
	OrganizationName string
	ProjectName      string
	OnBrokenLinks    BrokenLinkPolicy

	NavbarTitle string
	NavbarItems []NavbarItem

	FooterStyle  string
	FooterGroups []FooterGroup

	// CopyrightTemplate contains YearPlaceholder; Copyright is the rendered
	// form for Year, fixed when the value was constructed.
	CopyrightTemplate string
	Copyright         string
	Year              int

	Presets []Preset
}

var (
	defaultOnce sync.Once
	defaultCfg  *SiteConfig
)

// Config returns the site configuration. The year is read from the clock the
// first time Config is called and stays fixed for the life of the process.
func Config() SiteConfig {
	defaultOnce.Do(func() {
		defaultCfg = New(time.Now())
	})
	return defaultCfg.Clone()
}

// New builds the site configuration with the copyright rendered for now's year.
func New(now time.Time) *SiteConfig {
	year := now.Year()
	const copyright = "Copyright © " + YearPlaceholder + " My Project, Inc. Built with Docusaurus."

	return &SiteConfig{
		Title:            "PyBulletX",
		Tagline:          "PyBullet, but much more organized.",
		URL:              "http://facebookresearch.github.io/pybulletX",
		BaseURL:          "/",
		Favicon:          "img/favicon.ico",
		OrganizationName: "facebookresearch",
		ProjectName:      "pybulletX",
		OnBrokenLinks:    BrokenLinksThrow,

		NavbarTitle: "PyBulletX",
		NavbarItems: []NavbarItem{
			{Target: "docs/", ActiveBasePath: "docs", Label: "Docs", Position: PositionLeft},
			{Target: "blog", Label: "Blog", Position: PositionLeft},
			{Target: "https://github.com/facebookresearch/pybulletX", Label: "GitHub", Position: PositionRight},
		},

		FooterStyle: "dark",
		FooterGroups: []FooterGroup{
			{
				Title: "Links",
				Items: []FooterLink{
					{Label: "Docs", Target: "docs/"},
					{Label: "pybulletX@GitHub", Target: "https://github.com/facebookresearch/pybulletX", External: true},
				},
			},
			{
				// Privacy and terms are a legal requirement.
				Title: "Legal",
				Items: []FooterLink{
					legalLink("Privacy", "https://opensource.facebook.com/legal/privacy/"),
					legalLink("Terms", "https://opensource.facebook.com/legal/terms/"),
					legalLink("Cookies", "https://opensource.facebook.com/legal/cookie-policy"),
				},
			},
		},

		CopyrightTemplate: copyright,
		Copyright:         RenderCopyright(copyright, year),
		Year:              year,

		Presets: []Preset{
			{
				Name: "@docusaurus/preset-classic",
				Docs: &DocsOptions{
					SidebarPath: "./sidebars.json",
					EditURL:     "https://github.com/facebook/docusaurus/edit/master/website/",
				},
				Blog: &BlogOptions{
					ShowReadingTime: true,
					EditURL:         "https://github.com/facebook/docusaurus/edit/master/website/blog/",
				},
				Theme: &ThemeOptions{CustomCSS: "./src/css/custom.css"},
			},
		},
	}
}

func legalLink(label, target string) FooterLink {
	return FooterLink{
		Label:    label,
		Target:   target,
		External: true,
		Window:   "_blank",
		Rel:      "noreferrer noopener",
	}
}

// RenderCopyright substitutes every YearPlaceholder in template with year.
func RenderCopyright(template string, year int) string {
	return strings.ReplaceAll(template, YearPlaceholder, strconv.Itoa(year))
}

// IsExternal reports whether target is an absolute http(s) URL.
func IsExternal(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Clone returns a deep copy of c.
func (c *SiteConfig) Clone() SiteConfig {
	out := *c
	out.NavbarItems = append([]NavbarItem(nil), c.NavbarItems...)

	if c.FooterGroups != nil {
		out.FooterGroups = make([]FooterGroup, len(c.FooterGroups))
		for i, g := range c.FooterGroups {
			out.FooterGroups[i] = FooterGroup{Title: g.Title, Items: append([]FooterLink(nil), g.Items...)}
		}
	}

	if c.Presets == nil {
		return out
	}
	out.Presets = make([]Preset, len(c.Presets))
	for i, p := range c.Presets {
		cp := Preset{Name: p.Name}
		if p.Docs != nil {
			d := *p.Docs
			cp.Docs = &d
		}
		if p.Blog != nil {
			b := *p.Blog
			cp.Blog = &b
		}
		if p.Theme != nil {
			th := *p.Theme
			cp.Theme = &th
		}
		out.Presets[i] = cp
	}
	return out
}

// DocsPreset returns the first preset carrying docs options, if any.
func (c *SiteConfig) DocsPreset() (Preset, bool) {
	for _, p := range c.Presets {
		if p.Docs != nil {
			return p, true
		}
	}
	return Preset{}, false
}
