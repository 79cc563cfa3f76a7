package llm

import "context"

// LLMClient defines the interface for model API operations.
type LLMClient interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
