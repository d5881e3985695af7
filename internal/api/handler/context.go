package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the claims injected by the Auth middleware and
// fast-fails before any service call: a present session id and handle
// prove the middleware ran.
func ctxActor(c echo.Context) (sessionID, handle string, err error) {
	sessionID, _ = c.Get("session_id").(string)
	handle, _ = c.Get("handle").(string)
	if sessionID == "" || handle == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return sessionID, handle, nil
}
