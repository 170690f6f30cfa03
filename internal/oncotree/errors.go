package oncotree

import (
	"errors"
	"fmt"
)

// ConstructError reports a defect in the ontology source table. The
// build is strict: a conflicting row is a hard error, never a silent
// pick of one reading over another.
type ConstructError struct {
	// Code identifies the conflict category.
	Code ConstructErrorCode

	// Message is a human-readable description.
	Message string

	// Term identifies the offending ontology code or term, if any.
	Term string
}

// ConstructErrorCode categorizes construction errors.
type ConstructErrorCode string

const (
	// ErrCodeMissingColumns indicates the source table lacks one or
	// more of the level_1..level_7 columns.
	ErrCodeMissingColumns ConstructErrorCode = "MISSING_COLUMNS"

	// ErrCodeLevelConflict indicates a code appears at two different
	// levels.
	ErrCodeLevelConflict ConstructErrorCode = "LEVEL_CONFLICT"

	// ErrCodeNameConflict indicates a code appears with two different
	// names.
	ErrCodeNameConflict ConstructErrorCode = "NAME_CONFLICT"

	// ErrCodeParentConflict indicates a code appears under two
	// different parents.
	ErrCodeParentConflict ConstructErrorCode = "PARENT_CONFLICT"
)

// Error implements the error interface.
func (e *ConstructError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("%s: %s (term=%s)", e.Code, e.Message, e.Term)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructError returns true if the error is an ontology
// construction error. Uses errors.As to handle wrapped errors.
func IsConstructError(err error) bool {
	var ce *ConstructError
	return errors.As(err, &ce)
}
