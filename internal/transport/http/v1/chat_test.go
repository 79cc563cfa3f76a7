package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayasurya1108/newRag/internal/domain"
)

func TestSubmitMessageReturnsThreeTurns(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "alice", "pw1")

	rec := doJSON(e, http.MethodPost, "/v1/chat/messages", token, SubmitRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Turns, 3)
	assert.Equal(t, domain.RoleUser, resp.Turns[0].Role)
	assert.Equal(t, "hello", resp.Turns[0].Text)
	assert.Equal(t, domain.RoleSystem, resp.Turns[1].Role)
	assert.Equal(t, domain.RoleAssistant, resp.Turns[2].Role)
	assert.Equal(t, resp.Turns[2].Text, resp.Reply)
}

func TestSubmitMessageBlockedByPolicy(t *testing.T) {
	e, st := newTestServer(t)
	token := login(t, e, "alice", "pw1")

	rec := doJSON(e, http.MethodPost, "/v1/chat/messages", token, SubmitRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty input")

	// A rejected submission persists nothing.
	n, err := st.CountMessages(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetHistoryAscending(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "alice", "pw1")

	rec := doJSON(e, http.MethodPost, "/v1/chat/messages", token, SubmitRequest{Text: "first question"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/v1/chat/messages", token, SubmitRequest{Text: "second question"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/chat/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 6)
	assert.Equal(t, "first question", resp.Messages[0].Text)
	assert.Equal(t, domain.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, "second question", resp.Messages[3].Text)
	for _, m := range resp.Messages {
		assert.Equal(t, "alice", m.Username)
	}
}

func TestGetHistoryEmpty(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "alice", "pw1")

	rec := doJSON(e, http.MethodGet, "/v1/chat/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}

func TestGetViewReflectsSession(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "alice", "pw1")

	rec := doJSON(e, http.MethodPost, "/v1/chat/messages", token, SubmitRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/chat/view", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Username string               `json:"username"`
		Turns    []domain.DisplayTurn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	require.Len(t, resp.Turns, 3)
	assert.Equal(t, domain.RoleUser, resp.Turns[0].Role)
}

func TestSessionsAreIsolatedByUser(t *testing.T) {
	e, _ := newTestServer(t)
	aliceToken := login(t, e, "alice", "pw1")
	bobToken := login(t, e, "bob", "pw2")

	rec := doJSON(e, http.MethodPost, "/v1/chat/messages", aliceToken, SubmitRequest{Text: "alice secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/chat/history", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}
