package registry

// Error is the uniform failure surface of every network-facing operation:
// a human-readable message taken verbatim from the backend response body
// (or the transport error text), plus the HTTP status when one was received.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

// transportError wraps a failure that happened before any response arrived.
func transportError(err error) *Error {
	return &Error{Message: err.Error()}
}
