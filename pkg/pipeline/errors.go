package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArtifact is matched when a stage runs before its inputs exist.
	ErrMissingArtifact = errors.New("missing prerequisite artifact")
	// ErrCompanyRequired is returned for a blank company name.
	ErrCompanyRequired = errors.New("company name is required")
)

// MissingArtifactError names the first absent input of a stage.
type MissingArtifactError struct {
	Stage Stage
	Name  string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("%s stage needs %s: %s", e.Stage, e.Name, ErrMissingArtifact)
}

func (e *MissingArtifactError) Is(target error) bool {
	return target == ErrMissingArtifact
}
