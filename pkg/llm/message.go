package llm

// Message is the wire form of a single chat message.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant"
	Content string `json:"content"` // The message content
}
