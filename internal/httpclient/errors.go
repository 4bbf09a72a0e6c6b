package httpclient

import (
	"fmt"
	"net/http"
)

// TransportError is a network level failure: DNS, refused connection, TLS,
// timeout or a broken response body. Its message is the underlying error text.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any response outside the 2xx range
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("Failed to fetch: %d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("Failed to fetch: %d", e.StatusCode)
}
