package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/policy"
)

// SubmitRequest carries one free-text submission.
type SubmitRequest struct {
	Text string `json:"text"`
}

// SubmitResponse is returned for an accepted submission.
type SubmitResponse struct {
	Reply string               `json:"reply"`
	Turns []domain.DisplayTurn `json:"turns"`
}

// SubmitMessage processes one user turn to completion.
// POST /v1/chat/messages
func (h *Handler) SubmitMessage(c echo.Context) error {
	sess := currentSession(c)

	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	decision, reason, err := h.guard.Evaluate(ctx, policy.SubmissionInput{
		Username: sess.Username(),
		Text:     req.Text,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if decision != "allow" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": reason})
	}

	reply, err := sess.Submit(ctx, req.Text)
	if err != nil {
		// Store write failures abort the interaction cycle.
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	view := sess.View()
	return c.JSON(http.StatusOK, SubmitResponse{
		Reply: reply,
		Turns: view[len(view)-3:],
	})
}

// GetHistory returns the persisted chat history for the logged-in user,
// oldest first. History is read back from the store on demand, not from
// the in-memory view.
// GET /v1/chat/history
func (h *Handler) GetHistory(c echo.Context) error {
	sess := currentSession(c)
	ctx := c.Request().Context()

	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	count, err := h.store.CountMessages(ctx, sess.Username())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	messages := []domain.Message{}
	if count > 0 {
		messages, err = h.store.ListMessages(ctx, sess.Username(), limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// GetView returns the in-memory display turns of the current session.
// GET /v1/chat/view
func (h *Handler) GetView(c echo.Context) error {
	sess := currentSession(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"username": sess.Username(),
		"turns":    sess.View(),
	})
}
