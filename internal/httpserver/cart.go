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

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetCart(ctx, userID, auth.Role(c))
	if err != nil {
		return respondError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("add_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, l, "add_cart_error", err)
	}

	l.Info("add_cart_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("set_cart_quantity_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_cart_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.SetItemQuantity(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, l, "set_cart_quantity_error", err)
	}

	l.Info("set_cart_quantity_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("remove_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("remove_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId is not a uuid")
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return respondError(c, l, "remove_cart_item_error", err)
	}

	l.Info("remove_cart_item_success", "product_id", productID)
	return c.JSON(http.StatusOK, cart)
}
