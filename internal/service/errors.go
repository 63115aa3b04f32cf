package service

// HTTPError represents an error with an associated HTTP status code,
// so the presenter can map gate failures without inspecting them.
type HTTPError struct {
	StatusCode int
	Wrapped    error
}

func (e HTTPError) Error() string { return e.Wrapped.Error() }

func (e HTTPError) Unwrap() error { return e.Wrapped }

func httpError(statusCode int, err error) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Wrapped: err}
}
