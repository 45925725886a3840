package fingerprint

import (
	"fmt"
	"os"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileIgnore lives in the static root and uses gitignore syntax.
// Paths are matched relative to the static root, e.g. "js/vendor/".
const FileIgnore = ".fingerprintignore"

type Ignorer interface {
	Ignore(path string) bool
}

func ParseIgnore(path string) (Ignorer, error) {
	ignores, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return (*ignorerGitignore)(nil), nil
		}
		return nil, fmt.Errorf("failed to parse ignore file at %s: %w", path, err)
	}

	return &ignorerGitignore{GitIgnore: ignores}, nil
}

func IgnoreLines(lines ...string) Ignorer {
	return &ignorerGitignore{GitIgnore: ignore.CompileIgnoreLines(lines...)}
}

type ignorerGitignore struct {
	*ignore.GitIgnore
}

func (i *ignorerGitignore) Ignore(path string) bool {
	if i == nil {
		return false
	}
	if i.GitIgnore == nil {
		return false
	}
	return i.MatchesPath(path)
}
