package llm

import "fmt"

// TransportStatus is the Failure status code used when no HTTP response was received.
const TransportStatus = 0

// Failure is returned by Client.Chat when the completion service did not
// answer with 200 OK, or could not be reached at all.
type Failure struct {
	// StatusCode is the HTTP status, or TransportStatus for DNS, connection and TLS errors.
	StatusCode int
	// Body is the raw response body, or the transport error message.
	Body string

	err error
}

func (f *Failure) Error() string {
	if f.IsTransport() {
		return fmt.Sprintf("transport error: %s", f.Body)
	}
	return fmt.Sprintf("bad status %d: %s", f.StatusCode, f.Body)
}

// Unwrap returns the underlying transport error, if any.
func (f *Failure) Unwrap() error {
	return f.err
}

// IsTransport reports whether the failure happened before any HTTP response arrived.
func (f *Failure) IsTransport() bool {
	return f.StatusCode == TransportStatus
}
