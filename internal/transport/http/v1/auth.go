package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jayasurya1108/newRag/internal/domain"
)

// CredentialsRequest carries a username/password pair.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register creates a new user account.
// POST /v1/auth/register
func (h *Handler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username and password are required"})
	}

	ctx := c.Request().Context()
	if err := h.auth.Register(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "registration successful, please log in",
	})
}

// Login authenticates a user and creates a session.
// POST /v1/auth/login
func (h *Handler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	ok, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidCredentials.Error()})
	}

	token, _ := h.sessions.Create(req.Username)
	return c.JSON(http.StatusOK, LoginResponse{Token: token, Username: req.Username})
}

// Logout destroys the current session. Persisted history is untouched.
// POST /v1/auth/logout
func (h *Handler) Logout(c echo.Context) error {
	token, _ := c.Get(ctxKeyToken).(string)
	h.sessions.Destroy(token)
	return c.NoContent(http.StatusNoContent)
}
