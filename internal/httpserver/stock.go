package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

type StockHTTP struct {
	Svc *service.StockService
}

func (h *StockHTTP) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.get")

	pharmacistID, err := auth.UserID(c)
	if err != nil {
		l.Error("get_stock_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetStock(ctx, pharmacistID)
	if err != nil {
		return respondError(c, l, "get_stock_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *StockHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.set_quantity")

	pharmacistID, err := auth.UserID(c)
	if err != nil {
		l.Error("set_stock_quantity_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_stock_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.SetItemQuantity(ctx, pharmacistID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, l, "set_stock_quantity_error", err)
	}

	l.Info("set_stock_quantity_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, view)
}
