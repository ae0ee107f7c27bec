// Package apperr defines the error taxonomy shared across the ingestion
// pipeline and the persistence boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports locally detected invalid input: an oversized file
// or a missing required field class at submit time. Fully recoverable by the
// user; never sent over the network.
type ValidationError struct {
	// Missing names the classes of requirement that were not met.
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "validation failed: missing " + strings.Join(e.Missing, ", ")
	}
	return "validation failed: " + e.Reason
}

// TransportError wraps an unreachable or non-2xx upstream service. Callers
// downgrade it to a soft failure: the pipeline continues with partial data.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError marks an inference response that was not parseable JSON even
// after brace scanning. Treated identically to TransportError downstream.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unparseable inference response: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// PersistenceError reports a failed save, delete, or list against the record
// store. The in-memory draft is retained so the user can retry. NotFound
// distinguishes a missing record from a backend failure.
type PersistenceError struct {
	Op       string
	Message  string
	NotFound bool
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HTTPStatus maps an error to the status code the handlers should respond
// with.
func HTTPStatus(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var te *TransportError
	if errors.As(err, &te) {
		return http.StatusBadGateway
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		if pe.NotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
