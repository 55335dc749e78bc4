package completion

import "fmt"

// ErrRequestFailed is returned when the completion endpoint could not be
// reached, answered with an error status, or returned an undecodable body.
type ErrRequestFailed struct {
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int

	// Message is a human readable description of the failure.
	Message string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e ErrRequestFailed) Error() string {
	return "request failed: " + e.Message
}

func (e ErrRequestFailed) Unwrap() error {
	return e.Err
}

// ErrMalformedResponse is returned when a successful response does not carry
// choices[0].message.content as a string.
type ErrMalformedResponse struct {
	Reason string
}

func (e ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Reason)
}
