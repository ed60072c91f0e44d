package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/events"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

type UserHTTP struct {
	Svc      *service.UserService
	Producer *events.Producer
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return respondError(c, l, "register_error", err)
	}

	publishEvent(l, h.Producer, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":  "user_registered",
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"id":      user.ID,
		"email":   user.Email,
		"message": "registration successful, please check your email to verify your account",
	})
}

// VerifyEmail is a browser-facing link target, so it answers with HTML.
func (h *UserHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.verify")

	user, err := h.Svc.VerifyEmail(ctx, c.Param("token"))
	if err != nil {
		l.Warn("verify_error", "error", err)
		return c.HTML(http.StatusNotFound, pageHTML("Verification failed",
			"This verification link is invalid or was already used."))
	}

	publishEvent(l, h.Producer, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type": "user_verified",
		"id":   user.ID,
	})

	l.Info("verify_success", "user_id", user.ID)
	return c.HTML(http.StatusOK, pageHTML("Account verified",
		"Your account has been verified. You can now sign in."))
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Login(ctx, req)
	if err != nil {
		return respondError(c, l, "login_error", err)
	}

	l.Info("login_success", "user_id", resp.ID)
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.forgot_password")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return respondError(c, l, "forgot_password_error", err)
	}

	l.Info("forgot_password_sent")
	return c.JSON(http.StatusOK, map[string]string{"message": "reset email sent"})
}

// ResetPasswordForm serves the browser form the reset email links to. The
// token is checked up front so a dead link gets the failure page instead of a
// form that can never succeed.
func (h *UserHTTP) ResetPasswordForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.reset_password_form")

	token := c.Param("token")
	if err := h.Svc.CheckResetToken(ctx, token); err != nil {
		l.Warn("reset_password_form_error", "error", err)
		return c.HTML(http.StatusNotFound, pageHTML("Reset failed",
			"This reset link is invalid or has expired. Request a new one."))
	}

	form := fmt.Sprintf(`<form method="POST" action="/api/users/resetpassword/%s">
  <input type="password" name="password" placeholder="New password" minlength="6" required>
  <button type="submit">Reset password</button>
</form>`, token)
	return c.HTML(http.StatusOK, pageHTML("Reset your password", form))
}

func (h *UserHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.reset_password")

	password := c.FormValue("password")
	if password == "" {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err == nil {
			password = req.Password
		}
	}

	if err := h.Svc.ResetPassword(ctx, c.Param("token"), password); err != nil {
		l.Warn("reset_password_error", "error", err)
		return c.HTML(http.StatusBadRequest, pageHTML("Reset failed",
			"This reset link is invalid or has expired. Request a new one."))
	}

	l.Info("reset_password_success")
	return c.HTML(http.StatusOK, pageHTML("Password updated",
		"Your password has been changed. You can now sign in."))
}

func pageHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: sans-serif; max-width: 480px; margin: 64px auto;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, title, title, body)
}
