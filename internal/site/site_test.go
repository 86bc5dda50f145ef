package site

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopyrightUsesConstructionYear(t *testing.T) {
	cfg := New(time.Date(2031, time.March, 4, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 2031, cfg.Year)
	assert.Equal(t, "Copyright © 2031 My Project, Inc. Built with Docusaurus.", cfg.Copyright)
	assert.Contains(t, cfg.CopyrightTemplate, YearPlaceholder)
}

func TestConfig_CopyrightIsCurrentYear(t *testing.T) {
	cfg := Config()

	year := regexp.MustCompile(`\b\d{4}\b`).FindString(cfg.Copyright)
	require.NotEmpty(t, year, "copyright %q has no 4-digit year", cfg.Copyright)
	assert.Equal(t, strconv.Itoa(time.Now().Year()), year)
}

func TestConfig_ReturnsIndependentCopies(t *testing.T) {
	a := Config()
	a.Title = "mutated"
	a.NavbarItems[0].Label = "mutated"
	a.FooterGroups[0].Items[0].Label = "mutated"
	a.Presets[0].Docs.EditURL = "mutated"

	b := Config()
	assert.Equal(t, "PyBulletX", b.Title)
	assert.Equal(t, "Docs", b.NavbarItems[0].Label)
	assert.Equal(t, "Docs", b.FooterGroups[0].Items[0].Label)
	assert.NotEqual(t, "mutated", b.Presets[0].Docs.EditURL)
}

func TestConfig_NavbarPositions(t *testing.T) {
	for _, it := range Config().NavbarItems {
		assert.Contains(t, []Position{PositionLeft, PositionRight}, it.Position, "navbar item %q", it.Label)
	}
}

func TestConfig_ExternalFooterLinksAreAbsolute(t *testing.T) {
	for _, g := range Config().FooterGroups {
		for _, l := range g.Items {
			if !l.External {
				continue
			}
			assert.True(t, strings.HasPrefix(l.Target, "http://") || strings.HasPrefix(l.Target, "https://"),
				"footer link %q in %q has target %q", l.Label, g.Title, l.Target)
		}
	}
}

func TestRenderCopyright(t *testing.T) {
	assert.Equal(t, "© 1999 - 1999", RenderCopyright("© {year} - {year}", 1999))
	assert.Equal(t, "no year", RenderCopyright("no year", 1999))
}

func TestIsExternal(t *testing.T) {
	cases := map[string]bool{
		"https://github.com/facebookresearch/pybulletX": true,
		"http://example.com":                            true,
		"docs/":                                         false,
		"blog":                                          false,
		"mailto:someone@example.com":                    false,
		"https://":                                      false,
	}
	for target, want := range cases {
		assert.Equal(t, want, IsExternal(target), target)
	}
}

func TestDocsPreset(t *testing.T) {
	cfg := New(time.Now())
	p, ok := cfg.DocsPreset()
	require.True(t, ok)
	assert.Equal(t, "@docusaurus/preset-classic", p.Name)
	assert.Equal(t, "./sidebars.json", p.Docs.SidebarPath)

	empty := &SiteConfig{}
	_, ok = empty.DocsPreset()
	assert.False(t, ok)
}

func TestClone_PreservesNilSlices(t *testing.T) {
	c := &SiteConfig{Title: "x"}
	out := c.Clone()
	assert.Equal(t, *c, out)
}
