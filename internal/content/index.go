// Package content indexes the docs directory the renderer resolves sidebar
// document identifiers against, so unresolved ids and broken links can be
// caught before the renderer runs.
package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// Doc is one indexed Markdown document.
type Doc struct {
	ID          string   // identifier used by the sidebar
	Path        string   // slash-separated, relative to the index root
	Title       string   // front matter title, first H1, or derived from the id
	Fingerprint string   // content fingerprint (front matter + body)
	Links       []string // link and image destinations found in the body
}

// SkippedDoc is a document Scan could not load.
type SkippedDoc struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Index is an immutable snapshot of the docs directory.
type Index struct {
	Root    string
	byID    map[string]*Doc
	byPath  map[string]*Doc
	ids     []string
	skipped []SkippedDoc
}

var docExtensions = map[string]bool{".md": true, ".mdx": true}

// Scan walks root and indexes every .md/.mdx file. Files and directories whose
// name starts with "_" or "." are skipped. A document that cannot be read or
// whose front matter does not parse is left out of the index and reported by
// Skipped; two documents with the same id fail the whole scan.
func Scan(root string) (*Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryContent, derrors.SeverityFatal, "docs directory not readable").
			WithContext("path", root)
	}
	if !info.IsDir() {
		return nil, derrors.New(derrors.CategoryContent, derrors.SeverityFatal, "docs path is not a directory").
			WithContext("path", root)
	}

	ix := &Index{Root: root, byID: map[string]*Doc{}, byPath: map[string]*Doc{}}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !docExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		doc, err := loadDoc(p, rel)
		if err != nil {
			slog.Warn("Skipping document", logfields.Path(rel), logfields.Error(err))
			ix.skipped = append(ix.skipped, SkippedDoc{Path: rel, Reason: err.Error()})
			return nil
		}
		if prev, dup := ix.byID[doc.ID]; dup {
			return derrors.New(derrors.CategoryContent, derrors.SeverityFatal, "two documents share an id").
				WithContext("id", doc.ID).
				WithContext("paths", []string{prev.Path, doc.Path})
		}
		ix.byID[doc.ID] = doc
		ix.byPath[doc.Path] = doc
		ix.ids = append(ix.ids, doc.ID)
		return nil
	})
	if err != nil {
		if _, ok := derrors.As(err); ok {
			return nil, err
		}
		return nil, derrors.Wrap(err, derrors.CategoryContent, derrors.SeverityFatal, "failed to scan docs").
			WithContext("path", root)
	}
	sort.Strings(ix.ids)
	return ix, nil
}

func loadDoc(absPath, rel string) (*Doc, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	parsed, err := frontmatter.Parse(data)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryContent, derrors.SeverityFatal, "invalid front matter").
			WithContext("path", rel)
	}

	analysis := markdown.Analyze(parsed.Body)
	doc := &Doc{
		ID:          DocID(rel, parsed.String("id")),
		Path:        rel,
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(parsed.Raw), "\n"), string(parsed.Body)),
	}
	for _, l := range analysis.Links {
		if l.Kind == markdown.LinkKindReferenceDefinition {
			continue
		}
		doc.Links = append(doc.Links, l.Destination)
	}

	switch {
	case parsed.String("title") != "":
		doc.Title = parsed.String("title")
	case analysis.Heading != "":
		doc.Title = analysis.Heading
	default:
		doc.Title = TitleFromID(doc.ID)
	}
	return doc, nil
}

// DocID derives a document identifier from its slash-separated relative path.
// A front matter id replaces the file's base name but keeps its directory.
func DocID(rel, frontMatterID string) string {
	dir := path.Dir(rel)
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if frontMatterID != "" {
		base = frontMatterID
	}
	if dir == "." {
		return base
	}
	return dir + "/" + base
}

var titleCaser = cases.Title(language.English)

// TitleFromID turns "tutorial/joint_info" into "Joint Info".
func TitleFromID(id string) string {
	base := path.Base(id)
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return titleCaser.String(strings.Join(strings.Fields(base), " "))
}

// Lookup returns the document with the given id.
func (ix *Index) Lookup(id string) (Doc, bool) {
	d, ok := ix.byID[id]
	if !ok {
		return Doc{}, false
	}
	return *d, true
}

// Docs returns all documents sorted by id.
func (ix *Index) Docs() []Doc {
	out := make([]Doc, 0, len(ix.ids))
	for _, id := range ix.ids {
		out = append(out, *ix.byID[id])
	}
	return out
}

// Skipped returns the documents Scan left out, in walk order.
func (ix *Index) Skipped() []SkippedDoc {
	return append([]SkippedDoc(nil), ix.skipped...)
}

// Len is the number of indexed documents.
func (ix *Index) Len() int { return len(ix.ids) }

// Fingerprints maps document path to fingerprint.
func (ix *Index) Fingerprints() map[string]string {
	out := make(map[string]string, len(ix.byPath))
	for p, d := range ix.byPath {
		out[p] = d.Fingerprint
	}
	return out
}

func (d Doc) String() string {
	return fmt.Sprintf("%s (%s)", d.ID, d.Path)
}
