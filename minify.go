package fingerprint

import (
	"fmt"
	"os"
	"path/filepath"
)

// fingerprinted is the pipeline state after JS and CSS were minified and hashed.
// Only [Fingerprinter.fingerprint] produces it.
type fingerprinted struct {
	assets Assets
	js     []string
	css    []string
}

func (f *Fingerprinter) fingerprint() (fingerprinted, error) {
	ignores, err := f.ignores()
	if err != nil {
		return fingerprinted{}, stageError{err: err, path: f.static, stage: StageMinifyJs}
	}

	js, err := discoverAssets(f.static, DirJs, ".js", ignores)
	if err != nil {
		return fingerprinted{}, stageError{err: err, path: DirJs, stage: StageMinifyJs}
	}

	assetsJs, err := f.fingerprintFiles(StageMinifyJs, js, f.options.minifier.MinifyJs)
	if err != nil {
		return fingerprinted{}, err
	}

	css, err := discoverAssets(f.static, DirCss, ".css", ignores)
	if err != nil {
		return fingerprinted{}, stageError{err: err, path: DirCss, stage: StageMinifyCss}
	}

	assetsCss, err := f.fingerprintFiles(StageMinifyCss, css, f.options.minifier.MinifyCss)
	if err != nil {
		return fingerprinted{}, err
	}

	return fingerprinted{
		assets: append(assetsJs, assetsCss...),
		js:     js,
		css:    css,
	}, nil
}

// fingerprintFiles minifies files in place and hashes the minified content
func (f *Fingerprinter) fingerprintFiles(
	stage Stage,
	files []string,
	minify func([]byte) ([]byte, error),
) (
	Assets,
	error,
) {
	logger := f.logger(stage)
	logger.Info("fingerprinting files", "count", len(files), "minify", !f.options.noMinify)

	assets := make(Assets, 0, len(files))
	for _, file := range files {
		data, perm, err := readFile(file)
		if err != nil {
			return nil, stageError{err: err, path: file, stage: stage}
		}

		if !f.options.noMinify {
			data, err = minify(data)
			if err != nil {
				return nil, stageError{err: fmt.Errorf("minifier error: %w", err), path: file, stage: stage}
			}

			err = os.WriteFile(file, data, perm)
			if err != nil {
				return nil, stageError{err: err, path: file, stage: stage}
			}
		}

		rel, err := filepath.Rel(f.static, file)
		if err != nil {
			return nil, stageError{err: err, path: file, stage: stage}
		}

		asset := Asset{
			Key:  assetKey(rel),
			Hash: f.options.hash(data),
			Path: file,
		}

		logger.Debug("fingerprinted", "key", asset.Key, "hash", asset.Hash)
		assets = append(assets, asset)
	}

	return assets, nil
}

func (f *Fingerprinter) ignores() (Ignorer, error) {
	if f.options.ignores != nil {
		return f.options.ignores, nil
	}

	return ParseIgnore(filepath.Join(f.static, FileIgnore))
}
