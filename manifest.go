package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Manifest maps asset reference keys to their hashed keys,
// e.g. "/js/app.js" -> "/js/app-1a2b3c4d.js"
type Manifest map[string]string

func WriteManifest(path string, assets Assets) error {
	b, err := json.MarshalIndent(Manifest(assets.Mapping()), "", "  ")
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to prepare manifest directory: %w", err)
	}

	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func NewManifest(filename string) (Manifest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest from file '%s': %w", filename, err)
	}

	m := Manifest{}
	err = json.Unmarshal(b, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest '%s': %w", filename, err)
	}

	return m, nil
}

// Verify checks that every hashed file in m exists under static
// and that its unhashed original is gone.
func (m Manifest) Verify(static string) error {
	var errs []error
	for _, key := range m.Keys() {
		hashed := filepath.Join(static, filepath.FromSlash(m[key]))
		_, err := os.Stat(hashed)
		if err != nil {
			errs = append(errs, fmt.Errorf("missing hashed file for '%s': %w", key, err))
			continue
		}

		_, err = os.Stat(filepath.Join(static, filepath.FromSlash(key)))
		if err == nil {
			errs = append(errs, fmt.Errorf("unhashed original '%s' still present", key))
		}
	}

	return errors.Join(errs...)
}

// Keys returns the asset keys of m, sorted
func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
