package llm

// ChatResponse represents an OpenAI-compatible chat completion response.
// The completion client reads replies with a JSON path rather than decoding
// into this type; it documents the wire shape and is what fake endpoints in
// tests encode.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice is a single completion candidate.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}
