package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/events"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("place_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, userID, auth.Role(c), req)
	if err != nil {
		return respondError(c, l, "place_order_error", err)
	}

	publishEvent(l, h.Producer, events.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":        "order_placed",
		"id":          order.ID,
		"user_id":     order.UserID,
		"total_price": order.TotalPrice,
	})

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	order, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		return respondError(c, l, "get_order_error", err)
	}
	if order.UserID != userID && auth.Role(c) != models.RoleAdmin {
		l.Warn("get_order_error", "status", 404, "order_id", orderID)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("list_my_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListMyOrders(ctx, userID)
	if err != nil {
		return respondError(c, l, "list_my_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		return respondError(c, l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("pay_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("pay_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	order, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		return respondError(c, l, "pay_order_error", err)
	}
	if order.UserID != userID && auth.Role(c) != models.RoleAdmin {
		l.Warn("pay_order_error", "status", 404, "order_id", orderID)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	var req transport.PaymentResultRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("pay_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err = h.Svc.MarkPaid(ctx, orderID, req)
	if err != nil {
		return respondError(c, l, "pay_order_error", err)
	}

	publishEvent(l, h.Producer, events.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":    "order_paid",
		"id":      order.ID,
		"user_id": order.UserID,
	})

	l.Info("pay_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}
