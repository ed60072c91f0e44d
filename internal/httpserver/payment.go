package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("create_intent_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateIntentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_intent_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.CreateIntent(ctx, userID, req)
	if err != nil {
		return respondError(c, l, "create_intent_error", err)
	}

	l.Info("create_intent_success", "payment_intent_id", resp.PaymentIntentID)
	return c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHTTP) ConfirmIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm_intent")

	var req transport.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("confirm_intent_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	intent, err := h.Svc.ConfirmIntent(ctx, req)
	if err != nil {
		return respondError(c, l, "confirm_intent_error", err)
	}

	l.Info("confirm_intent_success", "payment_intent_id", intent.ID, "intent_status", intent.Status)
	return c.JSON(http.StatusOK, intent)
}

func (h *PaymentHTTP) ListMethods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.list_methods")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("list_payment_methods_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	methods, err := h.Svc.ListPaymentMethods(ctx, userID)
	if err != nil {
		return respondError(c, l, "list_payment_methods_error", err)
	}
	return c.JSON(http.StatusOK, methods)
}

func (h *PaymentHTTP) AddMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.add_method")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("add_payment_method_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_payment_method_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	method, err := h.Svc.AddPaymentMethod(ctx, userID, req.PaymentMethodID)
	if err != nil {
		return respondError(c, l, "add_payment_method_error", err)
	}

	l.Info("add_payment_method_success", "provider_method_id", method.ProviderMethodID)
	return c.JSON(http.StatusCreated, method)
}

func (h *PaymentHTTP) RemoveMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.remove_method")

	userID, err := auth.UserID(c)
	if err != nil {
		l.Error("remove_payment_method_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.RemovePaymentMethod(ctx, userID, c.Param("id")); err != nil {
		return respondError(c, l, "remove_payment_method_error", err)
	}

	l.Info("remove_payment_method_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "payment method removed"})
}
