package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/metrics"
)

// AuthHandler exposes login, logout and registration.
type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates a credential pair and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, token, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthFailuresTotal.Inc()
		return err
	}

	method := "provider"
	if sess.Demo {
		method = "demo"
	}
	metrics.LoginsTotal.WithLabelValues(method).Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		Session: sessionResponse{
			ID:       sess.ID,
			Handle:   sess.Identity.Handle,
			Name:     sess.Identity.Name,
			Role:     sess.Role.String(),
			IssuedAt: sess.IssuedAt,
		},
	})
}

// Register creates a new identity and its role assignment. It never
// signs the registrar in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, _ := domain.ParseRole(req.Role)
	identity, err := h.sessions.Register(c.Request().Context(), req.Email, req.Password, req.Name, role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, identityResponse{
		Subject: identity.Subject,
		Handle:  identity.Handle,
		Name:    identity.Name,
	})
}

// Logout terminates the caller's session. Repeating the call is a no-op.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "session terminated"
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
