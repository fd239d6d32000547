package patient

import "fmt"

// ValidationError reports a malformed or missing field in a search or
// visit-submission payload. Field is the JSON name the caller used, so the
// error can be returned verbatim. Validation failures are never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// UpstreamError reports that the record store could not be reached for a query
// or append. The failure is transient; any retry policy is the caller's. A
// search never returns partial results: one unreachable store fails the whole
// operation.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("record store unavailable during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
