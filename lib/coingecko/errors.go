package coingecko

import (
	"fmt"
	"net/http"
)

// NetworkError is returned when the request never got a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError is returned when upstream answered with a non-2xx status.
// The response body is logged, never carried.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unexpected status code from %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}
