package fingerprint

import (
	"os"
)

// materialize renames every asset whose original file still exists to its hashed name.
// It takes the rewritten state, so it cannot run before references are rewritten.
func (f *Fingerprinter) materialize(rw rewritten) ([]string, error) {
	logger := f.logger(StageMaterialize)
	logger.Info("materializing fingerprinted files", "assets", len(rw.assets))

	var renamed []string
	for i := range rw.assets {
		a := &rw.assets[i]

		_, err := os.Stat(a.Path)
		if os.IsNotExist(err) {
			logger.Debug("original missing, skipping", "key", a.Key)
			continue
		}
		if err != nil {
			return renamed, stageError{err: err, path: a.Path, stage: StageMaterialize}
		}

		target := a.HashedPath()
		err = os.Rename(a.Path, target)
		if err != nil {
			return renamed, stageError{err: err, path: a.Path, stage: StageMaterialize}
		}

		logger.Debug("renamed", "from", a.Key, "to", a.HashedKey())
		renamed = append(renamed, target)
	}

	return renamed, nil
}
