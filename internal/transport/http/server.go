// Package http provides the HTTP server wiring for the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Jayasurya1108/newRag/internal/auth"
	"github.com/Jayasurya1108/newRag/internal/session"
	"github.com/Jayasurya1108/newRag/internal/store"
	"github.com/Jayasurya1108/newRag/internal/transport/http/v1"
	"github.com/Jayasurya1108/newRag/internal/transport/ws"
	"github.com/Jayasurya1108/newRag/policy"
)

// NewServer creates and configures the HTTP server: the v1 JSON API plus
// the WebSocket turn feed.
func NewServer(authSvc *auth.Service, sessions *session.Manager, st store.Store, guard *policy.Engine, wsServer *ws.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(authSvc, sessions, st, guard)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)

	return e
}
