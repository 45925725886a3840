package minifier

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

const (
	mediaTypeHtml = "text/html"
	mediaTypeCss  = "text/css"
	mediaTypeJs   = "application/javascript"
	mediaTypeSvg  = "image/svg+xml"
	mediaTypeJson = "application/json"

	// JsVersionDefault keeps output parseable by ES2015 browsers
	JsVersionDefault = 2015
)

var (
	ErrNotSupported = errors.New("media type not supported")

	reMediaTypeJs   = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)
	reMediaTypeJson = regexp.MustCompile(`[/+]json$`)
	reLegalComment  = regexp.MustCompile(`/\*![\s\S]*?\*/`)

	// FragmentsThymeleaf matches inlined expressions [[...]] and [(...)].
	// The natural-template form /*[[...]]*/ default is kept as one unit,
	// since comments vanish in inline JS and CSS minification.
	FragmentsThymeleaf = []*regexp.Regexp{
		regexp.MustCompile(`/\*\s*(?:\[\[(?:[^*]|\*[^/])*?\]\]|\[\((?:[^*]|\*[^/])*?\)\])\s*\*/` +
			`(?:[ \t]*(?:"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|\[[^\]\n]*\]|\{[^}\n]*\}|[\w.#%+-]+))?`),
		regexp.MustCompile(`\[\[[\s\S]*?\]\]`),
		regexp.MustCompile(`\[\([\s\S]*?\)\]`),
	}
)

type Options struct {
	// JsVersion is the ECMAScript version targeted by the JS minifier, 0 means latest
	JsVersion int

	// Fragments are passed through HTML minification byte-for-byte
	Fragments []*regexp.Regexp
}

// Minifier minifies JS, CSS and HTML documents.
// Inline scripts, styles, JSON and SVG inside HTML are minified too.
type Minifier struct {
	m         *minify.M
	fragments []*regexp.Regexp
}

func New(opts Options) *Minifier {
	m := minify.New()
	m.Add(mediaTypeHtml, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(mediaTypeCss, css.Minify)
	m.AddRegexp(reMediaTypeJs, &js.Minifier{
		Version: opts.JsVersion,
	})
	m.AddFuncRegexp(reMediaTypeJson, json.Minify)
	m.AddFunc(mediaTypeSvg, svg.Minify)

	return &Minifier{
		m:         m,
		fragments: opts.Fragments,
	}
}

// Default returns a Minifier targeting ES2015 that preserves Thymeleaf inline expressions
func Default() *Minifier {
	return New(Options{
		JsVersion: JsVersionDefault,
		Fragments: FragmentsThymeleaf,
	})
}

func (m *Minifier) MinifyJs(jsDoc []byte) ([]byte, error) {
	return m.minify(mediaTypeJs, jsDoc)
}

// MinifyCss minifies cssDoc and drops legal comments (/*! ... */)
func (m *Minifier) MinifyCss(cssDoc []byte) ([]byte, error) {
	out, err := m.minify(mediaTypeCss, cssDoc)
	if err != nil {
		return nil, err
	}

	return reLegalComment.ReplaceAll(out, nil), nil
}

func (m *Minifier) MinifyHtml(htmlDoc []byte) ([]byte, error) {
	masked, frags := protect(htmlDoc, m.fragments)
	masked, closing := markSelfClosing(masked)

	out, err := m.minify(mediaTypeHtml, masked)
	if err != nil {
		return nil, err
	}

	return frags.restore(closing.restore(out)), nil
}

// MinifyAll minifies data based on extension of path.
// Data of unsupported extensions are returned as they are.
func (m *Minifier) MinifyAll(path string, data []byte) ([]byte, error) {
	fn, err := m.extToFn(filepath.Ext(path))
	if err != nil {
		return data, nil
	}

	return fn(data)
}

func (m *Minifier) MinifyFile(path string) ([]byte, error) {
	fn, err := m.extToFn(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return fn(data)
}

func (m *Minifier) minify(mediaType string, doc []byte) ([]byte, error) {
	out := bytes.NewBuffer(nil)
	err := m.m.Minify(mediaType, out, bytes.NewBuffer(doc))
	if err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func (m *Minifier) extToFn(ext string) (func([]byte) ([]byte, error), error) {
	switch ext {
	case ".html":
		return m.MinifyHtml, nil
	case ".css":
		return m.MinifyCss, nil
	case ".js":
		return m.MinifyJs, nil
	}

	return nil, fmt.Errorf("'%s': %w", ext, ErrNotSupported)
}
