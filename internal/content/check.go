package content

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// DocsRoute is the URL prefix the docs plugin serves documents under.
const DocsRoute = "/docs/"

// Unresolved is a sidebar entry with no matching document.
type Unresolved struct {
	Category string `json:"category"`
	DocID    string `json:"doc_id"`
}

// BrokenLink is a relative link in a document that points nowhere.
type BrokenLink struct {
	Source      string `json:"source"` // document path
	Destination string `json:"destination"`
}

// Report collects the findings of a content check.
type Report struct {
	Docs        int          `json:"docs"`
	Unresolved  []Unresolved `json:"unresolved,omitempty"`
	BrokenLinks []BrokenLink `json:"broken_links,omitempty"`
	Skipped     []SkippedDoc `json:"skipped,omitempty"`
}

// Clean reports whether nothing was found.
func (r Report) Clean() bool {
	return len(r.Unresolved) == 0 && len(r.BrokenLinks) == 0 && len(r.Skipped) == 0
}

// Resolve returns every sidebar entry that does not name an indexed document.
func (ix *Index) Resolve(m sidebar.Manifest) []Unresolved {
	var out []Unresolved
	for _, c := range m.Categories {
		for _, id := range c.Items {
			if _, ok := ix.byID[id]; !ok {
				out = append(out, Unresolved{Category: c.Label, DocID: id})
			}
		}
	}
	return out
}

// BrokenLinks returns relative links whose target is neither an indexed
// document nor an existing file. External URLs, anchors and site-absolute
// paths outside DocsRoute are not checked.
func (ix *Index) BrokenLinks() []BrokenLink {
	var out []BrokenLink
	for _, id := range ix.ids {
		d := ix.byID[id]
		for _, dest := range d.Links {
			if !ix.linkResolves(d, dest) {
				out = append(out, BrokenLink{Source: d.Path, Destination: dest})
			}
		}
	}
	return out
}

func (ix *Index) linkResolves(from *Doc, dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return true
	}
	target, err := url.PathUnescape(u.Path)
	if err != nil {
		target = u.Path
	}

	if strings.HasPrefix(target, "/") {
		if !strings.HasPrefix(target, DocsRoute) {
			return true
		}
		_, ok := ix.byID[strings.TrimSuffix(strings.TrimPrefix(target, DocsRoute), "/")]
		return ok
	}

	joined := path.Join(path.Dir(from.Path), target)
	if docExtensions[strings.ToLower(path.Ext(joined))] {
		_, ok := ix.byPath[joined]
		return ok
	}
	// Extensionless links resolve like sidebar ids, relative to the document's directory.
	if _, ok := ix.byID[path.Join(path.Dir(from.ID), target)]; ok {
		return true
	}
	_, err = os.Stat(filepath.Join(ix.Root, filepath.FromSlash(joined)))
	return err == nil
}

// Check resolves the manifest against the index and applies policy to broken
// links. Unresolved sidebar entries always fail: the renderer cannot build a
// sidebar around a missing document.
func Check(ctx context.Context, ix *Index, m sidebar.Manifest, policy site.BrokenLinkPolicy) (Report, error) {
	r := Report{Docs: ix.Len(), Unresolved: ix.Resolve(m), Skipped: ix.Skipped()}
	if policy != site.BrokenLinksIgnore {
		r.BrokenLinks = ix.BrokenLinks()
	}

	for _, u := range r.Unresolved {
		slog.ErrorContext(ctx, "Sidebar entry has no document", logfields.Category(u.Category), logfields.DocID(u.DocID))
	}
	for _, b := range r.BrokenLinks {
		level := slog.LevelWarn
		if policy == site.BrokenLinksThrow || policy == "" {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Broken link", logfields.Path(b.Source), slog.String("destination", b.Destination))
	}

	if len(r.Unresolved) > 0 {
		ids := make([]string, 0, len(r.Unresolved))
		for _, u := range r.Unresolved {
			ids = append(ids, u.DocID)
		}
		return r, derrors.UnresolvedDocs(ids)
	}
	if len(r.BrokenLinks) > 0 && (policy == site.BrokenLinksThrow || policy == "") {
		return r, derrors.BrokenLinks(len(r.BrokenLinks))
	}
	return r, nil
}
