package glean

import (
	"errors"
	"fmt"
)

// ErrEmptyReference is returned when a content reference is an empty string.
var ErrEmptyReference = errors.New("content reference is empty")

// ErrModelMissing is returned when no model identifier is configured.
var ErrModelMissing = errors.New("model not specified")

// ErrNotIngestable is returned when Submit is called on a handle whose kind
// does not require server-side ingestion.
var ErrNotIngestable = errors.New("content kind does not require ingestion")

// ErrUnknownPurpose is returned by Registry.Lookup for an unregistered purpose.
var ErrUnknownPurpose = errors.New("unknown extraction purpose")

// UnresolvedReferenceError reports a content reference that could not be
// resolved: a local path that does not exist or a URL that is unreachable.
type UnresolvedReferenceError struct {
	Reference string
	Cause     error
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unresolved reference %q: %v", e.Reference, e.Cause)
	}
	return fmt.Sprintf("unresolved reference %q", e.Reference)
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Cause }

// IngestionFailedError reports that the remote side declared an uploaded
// file failed. Terminal for the handle; there is no automatic retry.
type IngestionFailedError struct {
	Handle string
	State  ProcessingState
}

func (e *IngestionFailedError) Error() string {
	return fmt.Sprintf("ingestion failed for %s (last state %s)", e.Handle, e.State)
}

// IngestionTimeoutError reports that the poll budget was exhausted while the
// file was still processing. Terminal for the handle.
type IngestionTimeoutError struct {
	Handle   string
	Attempts int
}

func (e *IngestionTimeoutError) Error() string {
	return fmt.Sprintf("ingestion timed out for %s after %d polls", e.Handle, e.Attempts)
}

// SchemaViolationError reports a response payload that did not parse against
// the declared schema. The whole result is rejected; there is no partial
// acceptance of a malformed batch.
type SchemaViolationError struct {
	Purpose string
	Field   string // offending field, empty when the payload shape itself is wrong
	Cause   error
}

func (e *SchemaViolationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema violation in %q: field %q: %v", e.Purpose, e.Field, e.Cause)
	}
	return fmt.Sprintf("schema violation in %q: %v", e.Purpose, e.Cause)
}

func (e *SchemaViolationError) Unwrap() error { return e.Cause }
