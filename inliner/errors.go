package inliner

import (
	"errors"
	"fmt"

	"github.com/viant/inliner/unit"
)

var (
	// ErrResolution is matched by errors of references that no locator can resolve
	ErrResolution = errors.New("unresolvable unit")
	// ErrSourceRead is matched by errors reading unit source
	ErrSourceRead = errors.New("failed to read unit source")
)

// ResolutionError represents an unresolvable unit reference
type ResolutionError struct {
	Name string
	// From is the referencing unit, empty for a seed
	From unit.Ref
}

// Error returns error message
func (e *ResolutionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("could not find unit %v", e.Name)
	}
	return fmt.Sprintf("could not find unit %v imported by %v", e.Name, e.From)
}

// Is matches ErrResolution
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// SourceError represents a failure to read unit source
type SourceError struct {
	Ref unit.Ref
	URL string
	Err error
}

// Error returns error message
func (e *SourceError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to read source of %v: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("failed to read source of %v (%v): %v", e.Ref, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is matches ErrSourceRead
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceRead
}
