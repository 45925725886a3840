package fingerprint

import (
	"errors"
	"fmt"
)

type Stage int

const (
	StageGuard Stage = -1
	// Stages below run in order of their values
	StageCleanUp Stage = 1 << iota
	StageMinifyJs
	StageMinifyCss
	StageRewrite
	StageMaterialize
)

var (
	ErrEmptyTarget   = errors.New("empty target directory")
	ErrProtectedPath = errors.New("target points to protected source directory")
	ErrNotDirectory  = errors.New("target is not a directory")
)

type stageError struct {
	err   error
	path  string
	stage Stage
}

func (s Stage) String() string {
	switch s {
	case StageGuard:
		return "guard"

	case StageCleanUp:
		return "cleanup"

	case StageMinifyJs:
		return "minify-js"

	case StageMinifyCss:
		return "minify-css"

	case StageRewrite:
		return "rewrite"

	case StageMaterialize:
		return "materialize"
	}

	return "BAD_STAGE"
}

func (e stageError) Error() string {
	if e.path == "" {
		return fmt.Errorf("[%s] %w", e.stage, e.err).Error()
	}

	return fmt.Errorf("[%s %s] %w", e.stage, e.path, e.err).Error()
}

func (e stageError) Unwrap() error {
	return e.err
}

// StageOf reports the stage in which err occurred,
// or false if err did not come from a pipeline stage.
func StageOf(err error) (Stage, bool) {
	var e stageError
	if !errors.As(err, &e) {
		return 0, false
	}

	return e.stage, true
}
