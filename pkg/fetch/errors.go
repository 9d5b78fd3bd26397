package fetch

import "fmt"

// NetworkError reports that the resource could not be reached at all:
// DNS, connection, TLS, timeout, or local file access.
type NetworkError struct {
	URI string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URI, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a reachable server that answered outside the
// 2xx range.
type HTTPStatusError struct {
	URI        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.URI, e.Status)
}

// DecodeError reports a response body that is not a valid JSON document.
type DecodeError struct {
	URI string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("response from %s is not valid JSON: %v", e.URI, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
