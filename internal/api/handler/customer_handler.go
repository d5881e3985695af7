package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumenpaints/erp-backend/internal/core/cache"
)

// CustomerHandler serves customer records from the reconciling cache.
type CustomerHandler struct {
	store *cache.Store
}

func NewCustomerHandler(store *cache.Store) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// List returns all customers, newest first.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Customer
// @Router       /v1/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Customers())
}

// Get returns a single customer by id from the local cache.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  errorResponse
// @Router       /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, ok := h.store.GetCustomer(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	return c.JSON(http.StatusOK, customer)
}

// Create writes a new customer through to the remote store.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
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

	customer, err := h.store.AddCustomer(c.Request().Context(), handle, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// Update rewrites a customer's fields.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Customer id"
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      200   {object}  domain.Customer
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
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

	customer := req.toDomain()
	customer.ID = c.Param("id")
	updated, err := h.store.UpdateCustomer(c.Request().Context(), handle, customer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a customer remotely, then locally.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id  path  string  true  "Customer id"
// @Success      204  "deleted"
// @Failure      502  {object}  errorResponse
// @Router       /v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteCustomer(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
