package fingerprint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// guard rejects targets that contain any protected path,
// checked against both the given and the absolute form of target.
// It never touches the filesystem except to stat target.
func (f *Fingerprinter) guard() error {
	if f.Target == "" {
		return stageError{err: ErrEmptyTarget, stage: StageGuard}
	}

	forms := []string{f.Target}
	abs, err := filepath.Abs(f.Target)
	if err == nil {
		forms = append(forms, abs)
	}

	for _, form := range forms {
		for _, protected := range f.options.protected {
			if isProtected(form, protected) {
				return stageError{
					err:   fmt.Errorf("%w: '%s'", ErrProtectedPath, protected),
					path:  f.Target,
					stage: StageGuard,
				}
			}
		}
	}

	stat, err := os.Stat(f.Target)
	if err != nil {
		return stageError{err: err, path: f.Target, stage: StageGuard}
	}
	if !stat.IsDir() {
		return stageError{err: ErrNotDirectory, path: f.Target, stage: StageGuard}
	}

	return nil
}

// isProtected matches with both slash forms normalized to '/'
func isProtected(target, protected string) bool {
	protected = strings.Trim(toSlash(protected), "/")
	if protected == "" {
		return false
	}

	return strings.Contains(toSlash(target), protected)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
