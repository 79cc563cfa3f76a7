package llm

import "context"

// Conversation is the handle to one ongoing model conversation. It carries
// the message history sent with each call, the way a chat session handle
// does in provider SDKs. Not safe for concurrent use; a session drives one
// turn to completion at a time.
type Conversation struct {
	client  LLMClient
	history []ChatMessage
}

// StartConversation creates a conversation handle seeded with history.
func StartConversation(client LLMClient, history []ChatMessage) *Conversation {
	return &Conversation{
		client:  client,
		history: append([]ChatMessage(nil), history...),
	}
}

// Send appends prompt as a user turn, calls the model, and returns the
// assistant reply text. On failure the handle is left without the failed
// exchange and the error is returned; the call is never retried.
func (c *Conversation) Send(ctx context.Context, prompt string) (string, error) {
	messages := append(c.history, ChatMessage{Role: "user", Content: prompt})

	resp, err := c.client.CreateChatCompletion(ctx, &ChatCompletionRequest{
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	reply := resp.Choices[0].Message.Content
	c.history = append(messages, ChatMessage{Role: "assistant", Content: reply})
	return reply, nil
}

// History returns a copy of the conversation history.
func (c *Conversation) History() []ChatMessage {
	return append([]ChatMessage(nil), c.history...)
}
