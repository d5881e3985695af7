package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenpaints/erp-backend/internal/core/cache"
)

// SaleHandler serves invoices from the reconciling cache.
type SaleHandler struct {
	store *cache.Store
}

func NewSaleHandler(store *cache.Store) *SaleHandler {
	return &SaleHandler{store: store}
}

// List returns all sales, newest first.
//
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Sale
// @Router       /v1/sales [get]
func (h *SaleHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Sales())
}

// Get returns a single sale by id from the local cache.
//
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale id"
// @Success      200  {object}  domain.Sale
// @Failure      404  {object}  errorResponse
// @Router       /v1/sales/{id} [get]
func (h *SaleHandler) Get(c echo.Context) error {
	sale, ok := h.store.GetSale(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "sale not found")
	}
	return c.JSON(http.StatusOK, sale)
}

// Create records an invoice: sale header, line items, then stock
// decrements, all as sequential remote writes with no rollback. A
// partial failure returns 502 and leaves the earlier writes in place.
//
// @Summary      Record a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saleRequest  true  "Sale with line items"
// @Success      201   {object}  domain.Sale
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/sales [post]
func (h *SaleHandler) Create(c echo.Context) error {
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, handle, err := ctxActor(c)
	if err != nil {
		return err
	}

	sale, err := h.store.AddSale(c.Request().Context(), handle, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sale)
}

// UpdateStatus moves a sale to a new order status.
//
// @Summary      Update order status
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sale id"
// @Param        body  body      orderStatusRequest  true  "New status"
// @Success      200   {object}  domain.Sale
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/sales/{id}/status [patch]
func (h *SaleHandler) UpdateStatus(c echo.Context) error {
	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, handle, err := ctxActor(c)
	if err != nil {
		return err
	}

	sale, ok := h.store.GetSale(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "sale not found")
	}
	sale.OrderStatus = req.OrderStatus

	updated, err := h.store.UpdateSale(c.Request().Context(), handle, sale)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a sale remotely, then locally. Line items go with the
// header through the store's cascade.
//
// @Summary      Delete a sale
// @Tags         sales
// @Security     BearerAuth
// @Param        id  path  string  true  "Sale id"
// @Success      204  "deleted"
// @Failure      502  {object}  errorResponse
// @Router       /v1/sales/{id} [delete]
func (h *SaleHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteSale(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
