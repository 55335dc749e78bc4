package llm

// ChatRequest represents an OpenAI-compatible chat completion request.
type ChatRequest struct {
	Model       string    `json:"model"`       // Model identifier (e.g., "google/gemini-2.0-flash-thinking-exp:free")
	Messages    []Message `json:"messages"`    // Conversation history, oldest first
	Temperature float64   `json:"temperature"` // Sampling temperature
}

// NewChatRequest projects every turn of history, in order, into a request for model.
func NewChatRequest(model string, history []Turn, temperature float64) ChatRequest {
	messages := make([]Message, len(history))
	for i, turn := range history {
		messages[i] = turn.Message()
	}

	return ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}
}
