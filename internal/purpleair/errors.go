package purpleair

import "fmt"

// FetchKind classifies fetch failures.
type FetchKind string

const (
	// FetchNetwork covers connection and timeout failures.
	FetchNetwork FetchKind = "network"
	// FetchHTTPStatus is a non-2xx response; Body carries the raw response
	// body for diagnostics.
	FetchHTTPStatus FetchKind = "http_status"
	// FetchMissingSensor is a successful cloud response that contained no
	// matching sensor record. Distinct from a parse error: the source
	// confirmed the sensor does not exist.
	FetchMissingSensor FetchKind = "missing_sensor"
)

// FetchError is returned by Client.Fetch on any network or HTTP failure.
type FetchError struct {
	Kind   FetchKind
	URL    string
	Status int    // set for http_status
	Body   string // set for http_status
	Err    error  // set for network
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d: %s", e.URL, e.Status, e.Body)
	case FetchMissingSensor:
		return fmt.Sprintf("fetch %s: no matching sensor record", e.URL)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is returned by Normalize when a required field is absent or
// unreadable in an otherwise well-formed payload.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse sensor payload: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse sensor payload: missing required field %q", e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }
