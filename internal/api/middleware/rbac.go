package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

// RequireRole enforces role-based access control: the caller's role
// rank must meet the given minimum. Requests without a recognizable
// role are forbidden.
func RequireRole(minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name, _ := c.Get("role").(string)
			role, ok := domain.ParseRole(name)
			if !ok || !role.Meets(minimum) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
