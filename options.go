package fingerprint

import (
	"log/slog"
)

type (
	Option func(*Fingerprinter)

	// Minifier is the black-box minification engine.
	// Implementations must be deterministic: same input, same output.
	Minifier interface {
		MinifyJs(jsDoc []byte) ([]byte, error)
		MinifyCss(cssDoc []byte) ([]byte, error)
		MinifyHtml(htmlDoc []byte) ([]byte, error)
	}

	options struct {
		minifier     Minifier
		hash         HashFunc
		logger       *slog.Logger
		ignores      Ignorer
		protected    []string
		sitemap      string
		manifest     string
		noMinify     bool
		noMinifyHtml bool
	}
)

func WithMinifier(m Minifier) Option {
	return func(f *Fingerprinter) {
		f.options.minifier = m
	}
}

func WithHashFunc(fn HashFunc) Option {
	return func(f *Fingerprinter) {
		f.options.hash = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Fingerprinter) {
		f.options.logger = l
	}
}

// WithIgnorer overrides rules otherwise read from FileIgnore in the static root
func WithIgnorer(i Ignorer) Option {
	return func(f *Fingerprinter) {
		f.options.ignores = i
	}
}

// WithProtectedPaths adds paths that the target must never contain.
// ProtectedDefault is always protected.
func WithProtectedPaths(paths ...string) Option {
	return func(f *Fingerprinter) {
		f.options.protected = append(f.options.protected, paths...)
	}
}

// WithSitemap sets the HTML file name that is never minified
func WithSitemap(name string) Option {
	return func(f *Fingerprinter) {
		f.options.sitemap = name
	}
}

// WithManifest makes Run write a JSON key -> hashed key manifest to path
func WithManifest(path string) Option {
	return func(f *Fingerprinter) {
		f.options.manifest = path
	}
}

// SkipMinify fingerprints JS and CSS assets as they are
func SkipMinify() Option {
	return func(f *Fingerprinter) {
		f.options.noMinify = true
	}
}

func SkipMinifyHtml() Option {
	return func(f *Fingerprinter) {
		f.options.noMinifyHtml = true
	}
}
