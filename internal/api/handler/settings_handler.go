package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/core/service"
)

// SettingsHandler reads and writes the single application settings
// object. Saving propagates the inactivity threshold to the session
// manager immediately.
type SettingsHandler struct {
	settings ports.SettingsStore
	sessions *service.SessionManager
}

func NewSettingsHandler(settings ports.SettingsStore, sessions *service.SessionManager) *SettingsHandler {
	return &SettingsHandler{settings: settings, sessions: sessions}
}

// Get returns the current settings, seeding defaults on first read.
//
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Settings
// @Failure      502  {object}  errorResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settings.Load(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "settings unavailable")
	}
	return c.JSON(http.StatusOK, settings)
}

// Update replaces the settings object and applies the new inactivity
// threshold to live sessions.
//
// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      settingsRequest  true  "Settings"
// @Success      200   {object}  domain.Settings
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings := domain.Settings{
		Currency:          req.Currency,
		InactivityMinutes: req.InactivityMinutes.Value(),
		CompanyName:       req.CompanyName,
		CompanyAddress:    req.CompanyAddress,
		CompanyPhone:      req.CompanyPhone,
		TaxNumber:         req.TaxNumber,
	}
	if err := h.settings.Save(c.Request().Context(), settings); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "settings not saved")
	}
	h.sessions.SetIdleTimeout(settings.InactivityMinutes)

	return c.JSON(http.StatusOK, settings)
}
