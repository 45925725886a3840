package fingerprint

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/soyart/fingerprint/minifier"
)

const (
	DirStatic    = "static"
	DirTemplates = "templates"
	DirJs        = "js"
	DirCss       = "css"

	TargetDefault    = "build/resources/main"
	ProtectedDefault = "src/main/resources"
	SitemapDefault   = "sitemap_xml.html"
)

// Fingerprinter minifies and content-hashes JS and CSS assets under Target/static,
// rewrites references to them in HTML, JS and CSS, then renames the assets
// to their hashed names.
type Fingerprinter struct {
	Target string

	static    string
	templates string
	options   options
}

// Report describes what a run did
type Report struct {
	Assets    Assets
	Removed   []string // Stale hashed files deleted
	Rewritten []string // Files written back with new content
	Renamed   []string // Hashed files materialized
}

// Run creates a one-off [Fingerprinter] and runs it on target
func Run(target string, opts ...Option) (Report, error) {
	f := New(target)
	return f.With(opts...).Run()
}

// New returns a [Fingerprinter] with default options:
// MD5 fingerprints, the tdewolff-backed minifier
// and the default sitemap and protected path.
func New(target string) Fingerprinter {
	return Fingerprinter{
		Target:    target,
		static:    filepath.Join(target, DirStatic),
		templates: filepath.Join(target, DirTemplates),
		options: options{
			minifier:  minifier.Default(),
			hash:      Md5,
			logger:    slog.Default(),
			protected: []string{ProtectedDefault},
			sitemap:   SitemapDefault,
		},
	}
}

// With applies opts to f sequentially
func (f *Fingerprinter) With(opts ...Option) *Fingerprinter {
	for i := range opts {
		opts[i](f)
	}
	return f
}

// Run executes the pipeline: guard, cleanup, minify JS, minify CSS,
// rewrite references and materialize hashed files.
//
// On error, the returned report covers the stages that completed.
// Nothing is rolled back.
func (f *Fingerprinter) Run() (Report, error) {
	logger := f.options.logger.With("target", f.Target)

	err := f.guard()
	if err != nil {
		logger.Error("refusing to process target", "error", err)
		return Report{}, err
	}

	logger.Info("processing target")
	report := Report{}

	report.Removed, err = f.cleanup()
	if err != nil {
		return report, err
	}

	fp, err := f.fingerprint()
	if err != nil {
		return report, err
	}
	report.Assets = fp.assets

	rw, err := f.rewrite(fp)
	if err != nil {
		return report, err
	}
	report.Rewritten = rw.written

	report.Renamed, err = f.materialize(rw)
	if err != nil {
		return report, err
	}

	if f.options.manifest != "" {
		err = WriteManifest(f.options.manifest, report.Assets)
		if err != nil {
			return report, fmt.Errorf("failed to write manifest: %w", err)
		}

		logger.Info("wrote manifest", "path", f.options.manifest)
	}

	logger.Info("done",
		"assets", len(report.Assets),
		"removed", len(report.Removed),
		"rewritten", len(report.Rewritten),
		"renamed", len(report.Renamed),
	)

	return report, nil
}

func (f *Fingerprinter) logger(s Stage) *slog.Logger {
	return f.options.logger.WithGroup(s.String())
}
