package errors

import "fmt"

// maxPayloadSnippet bounds how much of a bad payload ends up in diagnostics.
const maxPayloadSnippet = 64

// ConnectError reports a failed connection attempt. It is terminal: the
// session never started, so there is nothing to recover.
type ConnectError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectError) Unwrap() error {
	return e.Err
}

// TransportError reports a connection dropped after it was established.
// It is terminal for the session.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport fault on %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a payload that is not valid structured data.
// It is recovered at the receive loop; the session continues.
type DecodeError struct {
	Payload []byte
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	snippet := e.Payload
	if len(snippet) > maxPayloadSnippet {
		snippet = snippet[:maxPayloadSnippet]
	}
	return fmt.Sprintf("decode payload %q: %v", snippet, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HandlerError reports a handler that failed during dispatch. It is
// recovered inside Dispatch; the remaining handlers still run.
type HandlerError struct {
	Handler   string
	EventType string
	Err       error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s (event type %q): %v", e.Handler, e.EventType, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// HTTPError represents an HTTP failure with status code, used by the
// bench tool when the target rejects a request.
type HTTPError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("HTTP %d at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
