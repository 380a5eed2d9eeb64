package providers

import (
	"errors"
	"fmt"
)

// UpstreamError captures a transport-level failure against the upstream API:
// network error, timeout, non-2xx status, or a body that failed to decode.
// The result for the affected league degrades to empty, nothing is cached,
// and the next update cycle retries naturally.
type UpstreamError struct {
	League     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream %s: unexpected status %d from %s", e.League, e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("upstream %s: %v", e.League, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// SchemaError means the upstream answered successfully but none of the
// expected response shapes matched, or extraction produced zero usable
// entries. It is distinct from UpstreamError because it signals contract
// drift rather than a transient outage.
type SchemaError struct {
	League   string
	Endpoint string
	Detail   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %s (%s)", e.League, e.Detail, e.Endpoint)
}

// AsSchemaError attempts to unwrap an error into a SchemaError.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
