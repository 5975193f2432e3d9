package driven

import "context"

// LLMService provides answer generation for the query pipeline. The core
// treats it as a black box: text in, text out. Query-time failures never
// take down the service; the query pipeline degrades to an answer stating
// the limitation, with no citations.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a single-turn or multi-turn conversation and returns
	// the assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
