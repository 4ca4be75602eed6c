package meraki

import "errors"

type ErrorKind string

const (
	// NotConfigured signals a missing session parameter, e.g. listing
	// networks before an organization is selected.
	NotConfigured ErrorKind = "not_configured"
	// Upstream signals a failed Meraki API call.
	Upstream ErrorKind = "upstream"
	// Internal signals an unexpected local failure.
	Internal ErrorKind = "internal"
)

// Error is the tagged error the wrapper surfaces to the web layer so
// handlers can pick a matching HTTP status.
type Error struct {
	Kind       ErrorKind
	Details    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Details
}

func newNotConfiguredError(details string) *Error {
	return &Error{Kind: NotConfigured, Details: details}
}

func newUpstreamError(err error) *Error {
	e := &Error{Kind: Upstream, Details: err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		e.StatusCode = apiErr.StatusCode
	}
	return e
}

// NewInternalError tags a failure that is neither a configuration nor
// an upstream problem. Boundaries use it for errors they don't
// recognize.
func NewInternalError(err error) *Error {
	return &Error{Kind: Internal, Details: err.Error()}
}
