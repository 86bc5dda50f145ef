package site

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The types below mirror the object shape the renderer loads as its site
// configuration. Internal targets go out as "to", external ones as "href".

type externalConfig struct {
	Title            string              `json:"title" yaml:"title"`
	Tagline          string              `json:"tagline" yaml:"tagline"`
	URL              string              `json:"url" yaml:"url"`
	BaseURL          string              `json:"baseUrl" yaml:"baseUrl"`
	OnBrokenLinks    string              `json:"onBrokenLinks,omitempty" yaml:"onBrokenLinks,omitempty"`
	Favicon          string              `json:"favicon" yaml:"favicon"`
	OrganizationName string              `json:"organizationName" yaml:"organizationName"`
	ProjectName      string              `json:"projectName" yaml:"projectName"`
	ThemeConfig      externalThemeConfig `json:"themeConfig" yaml:"themeConfig"`
	Presets          []presetEntry       `json:"presets" yaml:"presets"`
	CustomFields     *externalFields     `json:"customFields,omitempty" yaml:"customFields,omitempty"`
}

type externalThemeConfig struct {
	Navbar externalNavbar `json:"navbar" yaml:"navbar"`
	Footer externalFooter `json:"footer" yaml:"footer"`
}

type externalNavbar struct {
	Title string               `json:"title" yaml:"title"`
	Items []externalNavbarItem `json:"items" yaml:"items"`
}

type externalNavbarItem struct {
	To             string `json:"to,omitempty" yaml:"to,omitempty"`
	Href           string `json:"href,omitempty" yaml:"href,omitempty"`
	ActiveBasePath string `json:"activeBasePath,omitempty" yaml:"activeBasePath,omitempty"`
	Label          string `json:"label" yaml:"label"`
	Position       string `json:"position" yaml:"position"`
}

type externalFooter struct {
	Style     string                `json:"style,omitempty" yaml:"style,omitempty"`
	Links     []externalFooterGroup `json:"links" yaml:"links"`
	Copyright string                `json:"copyright" yaml:"copyright"`
}

type externalFooterGroup struct {
	Title string               `json:"title" yaml:"title"`
	Items []externalFooterItem `json:"items" yaml:"items"`
}

// Href is a pointer so an external link with an empty target still carries
// its "href" key and decodes as external.
type externalFooterItem struct {
	Label  string  `json:"label" yaml:"label"`
	To     string  `json:"to,omitempty" yaml:"to,omitempty"`
	Href   *string `json:"href,omitempty" yaml:"href,omitempty"`
	Target string  `json:"target,omitempty" yaml:"target,omitempty"`
	Rel    string  `json:"rel,omitempty" yaml:"rel,omitempty"`
}

type externalFields struct {
	CopyrightTemplate string `json:"copyrightTemplate" yaml:"copyrightTemplate"`
	CopyrightYear     int    `json:"copyrightYear" yaml:"copyrightYear"`
}

type presetOptions struct {
	Docs  *externalDocs         `json:"docs,omitempty" yaml:"docs,omitempty"`
	Blog  *externalBlog         `json:"blog,omitempty" yaml:"blog,omitempty"`
	Theme *externalThemeOptions `json:"theme,omitempty" yaml:"theme,omitempty"`
}

type externalDocs struct {
	SidebarPath string `json:"sidebarPath" yaml:"sidebarPath"`
	EditURL     string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
}

type externalBlog struct {
	ShowReadingTime bool   `json:"showReadingTime" yaml:"showReadingTime"`
	EditURL         string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
}

type externalThemeOptions struct {
	CustomCSS string `json:"customCss" yaml:"customCss"`
}

// presetEntry is encoded as the two-element tuple [name, options].
type presetEntry struct {
	Name    string
	Options presetOptions
}

func (p presetEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Name, p.Options})
}

func (p *presetEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Name = name
		return nil
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("preset must be a name or [name, options]: %w", err)
	}
	if len(tuple) == 0 || len(tuple) > 2 {
		return fmt.Errorf("preset tuple must have 1 or 2 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &p.Name); err != nil {
		return fmt.Errorf("preset name: %w", err)
	}
	if len(tuple) == 2 {
		if err := json.Unmarshal(tuple[1], &p.Options); err != nil {
			return fmt.Errorf("preset %s options: %w", p.Name, err)
		}
	}
	return nil
}

func (p presetEntry) MarshalYAML() (any, error) {
	return []any{p.Name, p.Options}, nil
}

func (p *presetEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&p.Name)
	case yaml.SequenceNode:
		if len(value.Content) == 0 || len(value.Content) > 2 {
			return fmt.Errorf("preset tuple must have 1 or 2 elements, got %d", len(value.Content))
		}
		if err := value.Content[0].Decode(&p.Name); err != nil {
			return fmt.Errorf("preset name: %w", err)
		}
		if len(value.Content) == 2 {
			if err := value.Content[1].Decode(&p.Options); err != nil {
				return fmt.Errorf("preset %s options: %w", p.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: preset must be a name or [name, options]", value.Line)
	}
}

func toExternal(c *SiteConfig) externalConfig {
	out := externalConfig{
		Title:            c.Title,
		Tagline:          c.Tagline,
		URL:              c.URL,
		BaseURL:          c.BaseURL,
		OnBrokenLinks:    string(c.OnBrokenLinks),
		Favicon:          c.Favicon,
		OrganizationName: c.OrganizationName,
		ProjectName:      c.ProjectName,
		ThemeConfig: externalThemeConfig{
			Navbar: externalNavbar{Title: c.NavbarTitle, Items: []externalNavbarItem{}},
			Footer: externalFooter{Style: c.FooterStyle, Links: []externalFooterGroup{}, Copyright: c.Copyright},
		},
		Presets: []presetEntry{},
		CustomFields: &externalFields{
			CopyrightTemplate: c.CopyrightTemplate,
			CopyrightYear:     c.Year,
		},
	}

	for _, it := range c.NavbarItems {
		ni := externalNavbarItem{ActiveBasePath: it.ActiveBasePath, Label: it.Label, Position: string(it.Position)}
		if IsExternal(it.Target) {
			ni.Href = it.Target
		} else {
			ni.To = it.Target
		}
		out.ThemeConfig.Navbar.Items = append(out.ThemeConfig.Navbar.Items, ni)
	}

	for _, g := range c.FooterGroups {
		eg := externalFooterGroup{Title: g.Title, Items: []externalFooterItem{}}
		for _, l := range g.Items {
			fi := externalFooterItem{Label: l.Label, Target: l.Window, Rel: l.Rel}
			if l.External {
				href := l.Target
				fi.Href = &href
			} else {
				fi.To = l.Target
			}
			eg.Items = append(eg.Items, fi)
		}
		out.ThemeConfig.Footer.Links = append(out.ThemeConfig.Footer.Links, eg)
	}

	for _, p := range c.Presets {
		e := presetEntry{Name: p.Name}
		if p.Docs != nil {
			e.Options.Docs = &externalDocs{SidebarPath: p.Docs.SidebarPath, EditURL: p.Docs.EditURL}
		}
		if p.Blog != nil {
			e.Options.Blog = &externalBlog{ShowReadingTime: p.Blog.ShowReadingTime, EditURL: p.Blog.EditURL}
		}
		if p.Theme != nil {
			e.Options.Theme = &externalThemeOptions{CustomCSS: p.Theme.CustomCSS}
		}
		out.Presets = append(out.Presets, e)
	}
	return out
}

func fromExternal(e externalConfig) *SiteConfig {
	c := &SiteConfig{
		Title:             e.Title,
		Tagline:           e.Tagline,
		URL:               e.URL,
		BaseURL:           e.BaseURL,
		Favicon:           e.Favicon,
		OrganizationName:  e.OrganizationName,
		ProjectName:       e.ProjectName,
		OnBrokenLinks:     BrokenLinkPolicy(e.OnBrokenLinks),
		NavbarTitle:       e.ThemeConfig.Navbar.Title,
		FooterStyle:       e.ThemeConfig.Footer.Style,
		Copyright:         e.ThemeConfig.Footer.Copyright,
	}
	if f := e.CustomFields; f != nil {
		c.CopyrightTemplate = f.CopyrightTemplate
		c.Year = f.CopyrightYear
	} else {
		// Configs written by hand may carry only the rendered copyright.
		c.CopyrightTemplate = c.Copyright
	}

	for _, it := range e.ThemeConfig.Navbar.Items {
		target := it.To
		if it.Href != "" {
			target = it.Href
		}
		c.NavbarItems = append(c.NavbarItems, NavbarItem{
			Target:         target,
			Label:          it.Label,
			Position:       Position(it.Position),
			ActiveBasePath: it.ActiveBasePath,
		})
	}

	for _, g := range e.ThemeConfig.Footer.Links {
		fg := FooterGroup{Title: g.Title}
		for _, l := range g.Items {
			fl := FooterLink{Label: l.Label, Target: l.To, Window: l.Target, Rel: l.Rel}
			if l.Href != nil {
				fl.Target = *l.Href
				fl.External = true
			}
			fg.Items = append(fg.Items, fl)
		}
		c.FooterGroups = append(c.FooterGroups, fg)
	}

	for _, p := range e.Presets {
		pr := Preset{Name: p.Name}
		if d := p.Options.Docs; d != nil {
			pr.Docs = &DocsOptions{SidebarPath: d.SidebarPath, EditURL: d.EditURL}
		}
		if b := p.Options.Blog; b != nil {
			pr.Blog = &BlogOptions{ShowReadingTime: b.ShowReadingTime, EditURL: b.EditURL}
		}
		if th := p.Options.Theme; th != nil {
			pr.Theme = &ThemeOptions{CustomCSS: th.CustomCSS}
		}
		c.Presets = append(c.Presets, pr)
	}

	return c
}

// EncodeJSON renders c in the renderer's JSON shape, indented by two spaces.
func EncodeJSON(c *SiteConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toExternal(c)); err != nil {
		return nil, fmt.Errorf("encode site config: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON parses the renderer's JSON shape back into a SiteConfig.
func DecodeJSON(data []byte) (*SiteConfig, error) {
	var e externalConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return fromExternal(e), nil
}

// EncodeYAML renders c in the renderer's shape as YAML.
func EncodeYAML(c *SiteConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toExternal(c)); err != nil {
		return nil, fmt.Errorf("encode site config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode site config: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses the renderer's shape from YAML.
func DecodeYAML(data []byte) (*SiteConfig, error) {
	var e externalConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return fromExternal(e), nil
}
