package fingerprint

import (
	"os"
)

// cleanup deletes hashed leftovers of previous runs under static js and css.
// Failing to delete a file is only logged.
func (f *Fingerprinter) cleanup() ([]string, error) {
	logger := f.logger(StageCleanUp)
	logger.Info("cleaning up stale fingerprinted files")

	var removed []string
	for _, dir := range []struct {
		name string
		ext  string
	}{
		{name: DirJs, ext: ".js"},
		{name: DirCss, ext: ".css"},
	} {
		stale, err := discoverStale(f.static, dir.name, dir.ext)
		if err != nil {
			return removed, stageError{err: err, path: dir.name, stage: StageCleanUp}
		}

		for _, file := range stale {
			err := os.Remove(file)
			if err != nil {
				logger.Warn("failed to remove stale file", "path", file, "error", err)
				continue
			}

			logger.Debug("removed stale file", "path", file)
			removed = append(removed, file)
		}
	}

	logger.Info("stale files removed", "count", len(removed))
	return removed, nil
}
