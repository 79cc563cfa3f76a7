package llm

import (
	"context"
	"errors"
	"testing"
)

// scriptedClient returns queued replies and records each request.
type scriptedClient struct {
	replies  []string
	err      error
	requests []*ChatCompletionRequest
}

func (s *scriptedClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return &ChatCompletionResponse{
		Choices: []Choice{{Message: &ChatMessage{Role: "assistant", Content: reply}}},
	}, nil
}

func TestConversationSendAccumulatesHistory(t *testing.T) {
	client := &scriptedClient{replies: []string{"first reply", "second reply"}}
	conv := StartConversation(client, nil)

	reply, err := conv.Send(context.Background(), "one")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "first reply" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if _, err := conv.Send(context.Background(), "two"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// The second request carries the whole exchange so far.
	req := client.requests[1]
	want := []ChatMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "first reply"},
		{Role: "user", Content: "two"},
	}
	if len(req.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(req.Messages))
	}
	for i := range want {
		if req.Messages[i] != want[i] {
			t.Fatalf("message %d: expected %+v, got %+v", i, want[i], req.Messages[i])
		}
	}

	if len(conv.History()) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(conv.History()))
	}
}

func TestConversationSendFailureLeavesHistoryClean(t *testing.T) {
	client := &scriptedClient{err: errors.New("boom")}
	conv := StartConversation(client, nil)

	if _, err := conv.Send(context.Background(), "one"); err == nil {
		t.Fatalf("expected error")
	}
	if len(conv.History()) != 0 {
		t.Fatalf("failed exchange leaked into history: %+v", conv.History())
	}
}

func TestConversationSeededHistory(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok"}}
	seed := []ChatMessage{{Role: "system", Content: "be brief"}}
	conv := StartConversation(client, seed)

	if _, err := conv.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if client.requests[0].Messages[0] != seed[0] {
		t.Fatalf("seed history not sent: %+v", client.requests[0].Messages)
	}
}

func TestMockClientEchoesIntent(t *testing.T) {
	mock := NewMockClient()
	resp, err := mock.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "what is the weather"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content == "" {
		t.Fatalf("unexpected mock response: %+v", resp)
	}
}
