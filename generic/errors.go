/*
errors.go - Centralized error types for the bonus engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Stage computations never fail; only the boundaries do (import, workflow
  guards, persistence).

ERROR CATEGORIES:
  1. Import errors - Unreadable or unsupported spreadsheets
  2. Validation errors - Workflow cannot proceed with this input
  3. Persistence errors - Snapshot save/load failures (never fatal)
  4. Stale references - Edits aimed at a row id that no longer exists;
     the session layer swallows these

USAGE:
  if errors.Is(err, generic.ErrImportFormat) {
      var fe *generic.ImportFormatError
      if errors.As(err, &fe) && fe.Legacy {
          // ask the operator to re-save as .xlsx
      }
  }

SEE ALSO:
  - tabular/reader.go: Produces ImportFormatError
  - session/workflow.go: Produces ValidationError, ErrConfirmationRequired
  - session/persist.go: Produces PersistenceError
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrImportFormat is returned when a spreadsheet cannot be read.
	ErrImportFormat = errors.New("unreadable spreadsheet")

	// ErrValidation is returned when input blocks the workflow
	// (no sales person in a batch, reference lists missing, bad override).
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is returned when a snapshot cannot be saved or loaded.
	ErrPersistence = errors.New("persistence failed")

	// ErrStaleReference is returned internally when a row or person id is
	// not present. Callers treat it as a no-op.
	ErrStaleReference = errors.New("stale reference")

	// ErrConfirmationRequired is returned when an operation would discard
	// unsaved work and the caller did not confirm.
	ErrConfirmationRequired = errors.New("confirmation required: current data would be discarded")

	// ErrNoSnapshot is returned when restoring with nothing saved.
	ErrNoSnapshot = errors.New("no saved session")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ImportFormatError describes a spreadsheet that could not be parsed.
// Legacy is set for old binary .xls files the reader cannot decode.
type ImportFormatError struct {
	Source string
	Legacy bool
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Legacy {
		return fmt.Sprintf("無法讀取此舊版 Excel (.xls) 格式，請另存為 .xlsx 後再試一次 (%s)", e.Source)
	}
	if e.Err == nil {
		return fmt.Sprintf("讀取失敗: %s", e.Source)
	}
	return fmt.Sprintf("讀取失敗: %s: %v", e.Source, e.Err)
}

func (e *ImportFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrImportFormat}
	}
	return []error{ErrImportFormat, e.Err}
}

// ValidationError explains why the workflow refused the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a store failure with the operation that failed.
type PersistenceError struct {
	Op  string // "save" or "load"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s session: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to operator input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrImportFormat) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing row, person or
// snapshot.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStaleReference) ||
		errors.Is(err, ErrNoSnapshot)
}
