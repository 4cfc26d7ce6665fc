package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

func (h *AuthHTTP) setSession(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp, h.SecureCookie))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, h.SecureCookie))
}

func (h *AuthHTTP) clearSession(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", h.SecureCookie))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", h.SecureCookie))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "register_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, l, "register_error", err.Error(), err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register_error", err)
	}

	l.Info("user_registered", "login", user.Login)
	if isForm(c) {
		setFlash(c, "Registration successful. Please log in.", h.SecureCookie)
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.JSON(http.StatusCreated, transport.RegisterResponse{Login: user.Login})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "login_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, l, "login_error", err.Error(), err)
	}

	pair, err := h.Svc.Login(ctx, req.Login, req.Password)
	if err != nil {
		if isForm(c) {
			code, msg := statusFor(err)
			l.Warn("login_failed", "status", code, "error", err)
			setFlash(c, msg, h.SecureCookie)
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return fail(c, l, "login_failed", err)
	}

	h.setSession(c, pair)
	l.Info("login_successful", "login", pair.Login)
	if isForm(c) {
		return c.Redirect(http.StatusSeeOther, "/visitor")
	}
	return c.JSON(http.StatusOK, transport.LoginResponse{Login: pair.Login, IsAdmin: pair.Role == "admin"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "no refresh cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		h.clearSession(c)
		return fail(c, l, "refresh_error", err)
	}

	h.setSession(c, pair)
	return c.JSON(http.StatusOK, transport.LoginResponse{Login: pair.Login, IsAdmin: pair.Role == "admin"})
}

// Logout always clears the session, even when revoking the stored token fails.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_error", "reason", "cannot revoke refresh token", "error", err)
		}
	}

	h.clearSession(c)
	setFlash(c, loggedOutMessage, h.SecureCookie)
	l.Info("successful_logout")
	return c.Redirect(http.StatusSeeOther, "/")
}
