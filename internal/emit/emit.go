// Package emit writes the renderer-facing files: the site configuration, the
// sidebars file and optionally a hugo.yaml projection.
package emit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/hugo"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// File names per format.
const (
	SiteConfigBase = "docusaurus.config"
	SidebarsBase   = "sidebars"
)

// Options selects what Run writes and where.
type Options struct {
	Dir      string
	Formats  []string // config.FormatJSON and/or config.FormatYAML
	Hugo     bool
	Clean    bool // remove generated files of formats not selected
	Site     *site.SiteConfig
	Manifest sidebar.Manifest
	Titles   hugo.TitleFunc
	Recorder metrics.Recorder
}

type file struct {
	name   string
	format string
	encode func() ([]byte, error)
}

// Generated lists every file name Run can produce.
func Generated() []string {
	return []string{
		SiteConfigBase + ".json", SidebarsBase + ".json",
		SiteConfigBase + ".yaml", SidebarsBase + ".yaml",
		hugo.ConfigFile,
	}
}

func (o Options) files() ([]file, error) {
	var out []file
	for _, f := range o.Formats {
		switch f {
		case config.FormatJSON:
			out = append(out,
				file{SiteConfigBase + ".json", f, func() ([]byte, error) { return site.EncodeJSON(o.Site) }},
				file{SidebarsBase + ".json", f, func() ([]byte, error) { return sidebar.EncodeJSON(o.Manifest) }},
			)
		case config.FormatYAML:
			out = append(out,
				file{SiteConfigBase + ".yaml", f, func() ([]byte, error) { return site.EncodeYAML(o.Site) }},
				file{SidebarsBase + ".yaml", f, func() ([]byte, error) { return sidebar.EncodeYAML(o.Manifest) }},
			)
		default:
			return nil, derrors.ValidationFailed("format", fmt.Sprintf("unknown format %q", f))
		}
	}
	if o.Hugo {
		out = append(out, file{hugo.ConfigFile, "hugo", func() ([]byte, error) {
			return hugo.Marshal(o.Site, o.Manifest, o.Titles)
		}})
	}
	return out, nil
}

// Run encodes every selected file and writes it into Dir. All files are
// encoded before the first write, so an encoding failure leaves Dir untouched.
// It returns the paths written, in order.
func Run(ctx context.Context, opts Options) ([]string, error) {
	start := time.Now()
	if opts.Site == nil {
		opts.Site = site.New(time.Now())
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	files, err := opts.files()
	if err != nil {
		return nil, err
	}
	encoded := make([][]byte, len(files))
	for i, f := range files {
		data, err := f.encode()
		if err != nil {
			return nil, derrors.EncodeFailed(f.name, err)
		}
		encoded[i] = data
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, derrors.WriteFailed(opts.Dir, err)
	}

	written := make([]string, 0, len(files))
	keep := make(map[string]bool, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return written, derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityError, "emit canceled")
		}
		p := filepath.Join(opts.Dir, f.name)
		if err := writeAtomic(p, encoded[i]); err != nil {
			return written, err
		}
		keep[f.name] = true
		written = append(written, p)
		opts.Recorder.IncFileWritten(f.format)
		slog.DebugContext(ctx, "Wrote file", logfields.Path(p), logfields.Format(f.format), slog.Int("bytes", len(encoded[i])))
	}

	if opts.Clean {
		for _, name := range Generated() {
			if keep[name] {
				continue
			}
			p := filepath.Join(opts.Dir, name)
			if err := os.Remove(p); err == nil {
				slog.InfoContext(ctx, "Removed stale file", logfields.Path(p))
			} else if !os.IsNotExist(err) {
				return written, derrors.WriteFailed(p, err)
			}
		}
	}

	slog.InfoContext(ctx, "Emitted site files",
		logfields.Path(opts.Dir),
		logfields.Count(len(written)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return written, nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return derrors.WriteFailed(path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return derrors.WriteFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		return derrors.WriteFailed(path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return derrors.WriteFailed(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return derrors.WriteFailed(path, err)
	}
	return nil
}
