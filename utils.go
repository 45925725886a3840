package fingerprint

import (
	"io/fs"
	"os"
)

type Set map[string]struct{}

// Insert adds v to s and reports whether v was already present
func (s Set) Insert(v string) bool {
	_, ok := s[v]
	s[v] = struct{}{}

	return ok
}

// readFile returns the content of path along with its permission bits,
// so that rewrites keep the original mode.
func readFile(path string) ([]byte, fs.FileMode, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	return data, stat.Mode().Perm(), nil
}
