// Package v1 provides the HTTP handlers for the chat service.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Jayasurya1108/newRag/internal/auth"
	"github.com/Jayasurya1108/newRag/internal/session"
	"github.com/Jayasurya1108/newRag/internal/store"
	"github.com/Jayasurya1108/newRag/policy"
)

// Handler handles HTTP requests.
type Handler struct {
	auth     *auth.Service
	sessions *session.Manager
	store    store.Store
	guard    *policy.Engine
}

// NewHandler creates a new handler.
func NewHandler(authSvc *auth.Service, sessions *session.Manager, st store.Store, guard *policy.Engine) *Handler {
	return &Handler{
		auth:     authSvc,
		sessions: sessions,
		store:    st,
		guard:    guard,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)

	authed := e.Group("", h.requireSession)
	authed.POST("/v1/auth/logout", h.Logout)
	authed.POST("/v1/chat/messages", h.SubmitMessage)
	authed.GET("/v1/chat/history", h.GetHistory)
	authed.GET("/v1/chat/view", h.GetView)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

const (
	ctxKeySession = "chat.session"
	ctxKeyToken   = "chat.token"
)

// requireSession resolves the bearer token to a live session.
func (h *Handler) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session token"})
		}
		sess, err := h.sessions.Get(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
		}
		c.Set(ctxKeySession, sess)
		c.Set(ctxKeyToken, token)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func currentSession(c echo.Context) *session.Session {
	sess, _ := c.Get(ctxKeySession).(*session.Session)
	return sess
}
