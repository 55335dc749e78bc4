// Package llm provides the internal representations of chat turns and of the
// chat completion requests and responses built from them.
package llm

// ErrorResponse is the JSON body returned to API clients on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
