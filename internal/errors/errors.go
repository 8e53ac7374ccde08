// Package errors defines the typed error kinds surfaced across the
// designation, polite-crawl, verify and strain-matching packages, in the
// same constructor-and-struct shape the rest of this tree uses for its own
// errors.
package errors

import "fmt"

// DesignationError reports a malformed or unparsable catalogue-number
// designation.
type DesignationError struct {
	Input   string
	Message string
}

func (e *DesignationError) Error() string {
	return fmt.Sprintf("designation error for %q: %s", e.Input, e.Message)
}

func NewDesignationError(input, message string) *DesignationError {
	return &DesignationError{Input: input, Message: message}
}

// RequestURIError reports a candidate URL that could not be built or
// parsed into a valid request target.
type RequestURIError struct {
	URI string
	Err error
}

func (e *RequestURIError) Error() string {
	return fmt.Sprintf("invalid request uri %q: %v", e.URI, e.Err)
}

func (e *RequestURIError) Unwrap() error { return e.Err }

func NewRequestURIError(uri string, err error) *RequestURIError {
	return &RequestURIError{URI: uri, Err: err}
}

// SessionCreationError reports a failure to stand up a cache-backed HTTP
// or browser session.
type SessionCreationError struct {
	Operation string
	Err       error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("session creation failed during %s: %v", e.Operation, e.Err)
}

func (e *SessionCreationError) Unwrap() error { return e.Err }

func NewSessionCreationError(operation string, err error) *SessionCreationError {
	return &SessionCreationError{Operation: operation, Err: err}
}

// WrongContextError reports a worker-pool/goroutine context misuse, such
// as a handle used after its owning pool has been closed.
type WrongContextError struct {
	Message string
}

func (e *WrongContextError) Error() string {
	return fmt.Sprintf("wrong context: %s", e.Message)
}

func NewWrongContextError(message string) *WrongContextError {
	return &WrongContextError{Message: message}
}

// StrainMatchError reports that the voting resolver reached no consensus
// for a culture. Match-cache corruption (negative ids, non-main-id
// votes, vote-count underflow) is reported as a ConsistencyError.
type StrainMatchError struct {
	SiID    int
	Message string
}

func (e *StrainMatchError) Error() string {
	return fmt.Sprintf("strain match error for SI-ID %d: %s", e.SiID, e.Message)
}

func NewStrainMatchError(siID int, message string) *StrainMatchError {
	return &StrainMatchError{SiID: siID, Message: message}
}

// ConsistencyKind classifies which step-1 validation a ConsistencyError
// failed: a deprecated BRC, an erroneous culture record, or a corrupted
// cache-accounting invariant.
type ConsistencyKind string

const (
	ConInvalidBrc     ConsistencyKind = "inv_brc"
	ConInvalidCulture ConsistencyKind = "inv_cul"
	ConCacheAccounting ConsistencyKind = "err_ca"
)

// ConsistencyError reports that a direct culture_ccno hit failed one of
// the match-cache's step-1 validations before it could be trusted, or
// that MatchCache.CheckConsistency found corrupted cache accounting.
type ConsistencyError struct {
	Kind    ConsistencyKind
	Message string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency error [%s]: %s", e.Kind, e.Message)
}

func NewConsistencyError(kind ConsistencyKind, message string) *ConsistencyError {
	return &ConsistencyError{Kind: kind, Message: message}
}

// ValidationError represents a validation error in user-supplied CLI input
// (CSV rows, flags), carried over from the teacher's own error taxonomy.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
