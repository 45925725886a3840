package fingerprint

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Asset is a fingerprinted JS or CSS file.
type Asset struct {
	// Key is the asset path relative to the static root, e.g. "/js/app.js"
	Key  string `json:"key"`
	Hash string `json:"hash"`

	// Path is the asset's original (unhashed) location on disk
	Path string `json:"-"`
}

// Assets is an ordered table of asset records
type Assets []Asset

// HashedKey returns Key with "-<hash>" inserted before its extension
func (a Asset) HashedKey() string {
	return hashedName(a.Key, a.Hash)
}

func (a Asset) HashedPath() string {
	return hashedName(a.Path, a.Hash)
}

func (a Assets) Lookup(key string) (Asset, bool) {
	for i := range a {
		if a[i].Key == key {
			return a[i], true
		}
	}

	return Asset{}, false
}

// Mapping returns key -> hashed key for all assets
func (a Assets) Mapping() map[string]string {
	m := make(map[string]string, len(a))
	for i := range a {
		m[a[i].Key] = a[i].HashedKey()
	}

	return m
}

func hashedName(name, hash string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + hash + ext
}

// assetKey returns the reference key for rel, a slash-separated path relative to static root
func assetKey(rel string) string {
	return "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}

// globFiles returns files under root matching pattern,
// as slash-separated paths relative to root, sorted.
//
// A missing root yields no files.
func globFiles(root, pattern string) ([]string, error) {
	_, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad glob '%s' in '%s': %w", pattern, root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// discoverAssets collects fingerprinting candidates of extension ext under static/dir.
// Already-minified (*.min.ext), already-hashed and ignored files are skipped.
func discoverAssets(static, dir, ext string, ignores Ignorer) ([]string, error) {
	matches, err := globFiles(static, dir+"/**/*"+ext)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, rel := range matches {
		base := path.Base(rel)
		switch {
		case strings.HasSuffix(base, ".min"+ext):
			continue

		case IsHashed(base):
			continue

		case ignores != nil && ignores.Ignore(rel):
			continue
		}

		files = append(files, filepath.Join(static, filepath.FromSlash(rel)))
	}

	return files, nil
}

// discoverStale collects hashed leftovers of extension ext under static/dir
func discoverStale(static, dir, ext string) ([]string, error) {
	matches, err := globFiles(static, dir+"/**/*-*"+ext)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, rel := range matches {
		if !IsHashed(path.Base(rel)) {
			continue
		}

		files = append(files, filepath.Join(static, filepath.FromSlash(rel)))
	}

	return files, nil
}

func discoverHtml(roots ...string) ([]string, error) {
	var files []string
	for _, root := range roots {
		matches, err := globFiles(root, "**/*.html")
		if err != nil {
			return nil, err
		}

		for _, rel := range matches {
			files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}

	return files, nil
}
