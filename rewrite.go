package fingerprint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// rewritten is the pipeline state after all references point to hashed names.
// Only [Fingerprinter.rewrite] produces it, and materialization requires it.
type rewritten struct {
	assets  Assets
	written []string
}

// rewrite minifies HTML and rewrites asset references in every HTML file
// under static and templates, plus the JS and CSS files fingerprinted earlier.
// JS and CSS files are read from their original, not-yet-renamed paths.
func (f *Fingerprinter) rewrite(fp fingerprinted) (rewritten, error) {
	logger := f.logger(StageRewrite)

	html, err := discoverHtml(f.static, f.templates)
	if err != nil {
		return rewritten{}, stageError{err: err, stage: StageRewrite}
	}

	files := make([]string, 0, len(html)+len(fp.js)+len(fp.css))
	seen := make(Set)
	for _, list := range [][]string{html, fp.js, fp.css} {
		for _, file := range list {
			if seen.Insert(file) {
				continue
			}
			files = append(files, file)
		}
	}

	matchers := map[Kind]Matcher{
		KindHtml: MatcherFor(KindHtml),
		KindJs:   MatcherFor(KindJs),
		KindCss:  MatcherFor(KindCss),
	}

	logger.Info("rewriting references", "files", len(files), "assets", len(fp.assets))

	var written []string
	for _, file := range files {
		changed, err := f.rewriteFile(file, fp.assets, matchers[KindOf(file)])
		if err != nil {
			return rewritten{}, stageError{err: err, path: file, stage: StageRewrite}
		}
		if !changed {
			continue
		}

		written = append(written, file)
	}

	logger.Info("references rewritten", "written", len(written))
	return rewritten{
		assets:  fp.assets,
		written: written,
	}, nil
}

// rewriteFile writes file back only if its content changed
func (f *Fingerprinter) rewriteFile(file string, assets Assets, matcher Matcher) (bool, error) {
	data, perm, err := readFile(file)
	if err != nil {
		return false, err
	}

	processed := data
	if f.shouldMinifyHtml(file) {
		processed, err = f.options.minifier.MinifyHtml(processed)
		if err != nil {
			return false, fmt.Errorf("minifier error: %w", err)
		}
	}

	refs := 0
	if matcher != nil {
		for i := range assets {
			a := &assets[i]

			var n int
			processed, n = matcher.Rewrite(processed, a.Key, a.HashedKey())
			refs += n
		}
	}

	if bytes.Equal(processed, data) {
		return false, nil
	}

	err = os.WriteFile(file, processed, perm)
	if err != nil {
		return false, err
	}

	f.logger(StageRewrite).Debug("rewrote file", "path", file, "references", refs)
	return true, nil
}

func (f *Fingerprinter) shouldMinifyHtml(file string) bool {
	if f.options.noMinifyHtml {
		return false
	}
	if KindOf(file) != KindHtml {
		return false
	}

	return filepath.Base(file) != f.options.sitemap
}
