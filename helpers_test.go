package fingerprint

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var errStub = errors.New("stub minifier failure")

// stubMinifier collapses whitespace, which is deterministic and idempotent
type stubMinifier struct {
	htmlDocs []string
	failJs   bool
}

func (s *stubMinifier) MinifyJs(doc []byte) ([]byte, error) {
	if s.failJs {
		return nil, errStub
	}
	return collapse(doc), nil
}

func (s *stubMinifier) MinifyCss(doc []byte) ([]byte, error) {
	return collapse(doc), nil
}

func (s *stubMinifier) MinifyHtml(doc []byte) ([]byte, error) {
	s.htmlDocs = append(s.htmlDocs, string(doc))
	return collapse(doc), nil
}

func collapse(doc []byte) []byte {
	return []byte(strings.Join(strings.Fields(string(doc)), " "))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTree writes files (slash-separated path relative to root -> content) under root
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err != nil {
			t.Fatalf("failed to prepare dir for '%s': %v", rel, err)
		}
		err = os.WriteFile(path, []byte(content), 0o644)
		if err != nil {
			t.Fatalf("failed to write '%s': %v", rel, err)
		}
	}
}

// readTree returns all files under root as slash-separated relative path -> content
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree '%s': %v", root, err)
	}

	return files
}

func assertExists(t *testing.T, path string, exists bool) {
	t.Helper()
	_, err := os.Stat(path)
	switch {
	case exists && err != nil:
		t.Fatalf("expecting '%s' to exist: %v", path, err)

	case !exists && err == nil:
		t.Fatalf("expecting '%s' to not exist", path)

	case !exists && !os.IsNotExist(err):
		t.Fatalf("unexpected error from stat '%s': %v", path, err)
	}
}

func assertTreesEqual(t *testing.T, expected, actual map[string]string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("unexpected file count %d, expecting %d\nexpected: %v\nactual: %v", len(actual), len(expected), keys(expected), keys(actual))
	}
	for rel, content := range expected {
		got, ok := actual[rel]
		if !ok {
			t.Fatalf("missing file '%s'", rel)
		}
		if got != content {
			t.Fatalf("unexpected content for '%s':\nexpected: %s\nactual:   %s", rel, content, got)
		}
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
