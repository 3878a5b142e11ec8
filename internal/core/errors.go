package core

import (
	"fmt"
)

// CheckError is the single reportable failure of an update check: transport
// errors, non-200 responses, unexpected payloads and parse failures.
type CheckError struct {
	ModID string
	Op    string
	Err   error
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("update check for %s: %s", e.ModID, e.Op)
	}
	return fmt.Sprintf("update check for %s: %s: %v", e.ModID, e.Op, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// NewCheckError wraps err as a CheckError for modID.
func NewCheckError(modID, op string, err error) *CheckError {
	return &CheckError{ModID: modID, Op: op, Err: err}
}

// IdentifierError is returned when a checker is constructed from malformed
// coordinates (owner/repo, group:artifact, PURL, repository URL).
type IdentifierError struct {
	Kind   string // "repository", "coordinates", ...
	Input  string
	Reason string
	Err    error
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
}

func (e *IdentifierError) Unwrap() error {
	return e.Err
}

// DeclarationError reports malformed metadata declared by a mod. It is logged
// and never stops the mod from being registered.
type DeclarationError struct {
	ModID  string
	Field  string
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("mod %s: invalid %s: %s", e.ModID, e.Field, e.Reason)
}
