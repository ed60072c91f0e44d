package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

type AddressHTTP struct {
	Svc *service.UserService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("list_addresses_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addresses, err := h.Svc.ListAddresses(ctx, userID)
	if err != nil {
		return respondError(c, l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("create_address_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	address, err := h.Svc.AddAddress(ctx, userID, req)
	if err != nil {
		return respondError(c, l, "create_address_error", err)
	}

	l.Info("create_address_success", "address_id", address.ID)
	return c.JSON(http.StatusCreated, address)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("update_address_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	address, err := h.Svc.UpdateAddress(ctx, userID, addressID, req)
	if err != nil {
		return respondError(c, l, "update_address_error", err)
	}

	l.Info("update_address_success", "address_id", address.ID)
	return c.JSON(http.StatusOK, address)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("delete_address_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteAddress(ctx, userID, addressID); err != nil {
		return respondError(c, l, "delete_address_error", err)
	}

	l.Info("delete_address_success", "address_id", addressID)
	return c.JSON(http.StatusOK, map[string]string{"message": "address deleted"})
}
