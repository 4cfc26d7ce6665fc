package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const loggedOutMessage = "You have been logged out."

type ProfileHTTP struct {
	Svc          *service.ProfileService
	SecureCookie bool
}

func (h *ProfileHTTP) EditPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.edit_page")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.LoadForEdit(ctx, login)
	if err != nil {
		return fail(c, l, "edit_profile_page_error", err)
	}
	return c.Render(http.StatusOK, "edit_profile.html", view)
}

func (h *ProfileHTTP) Apply(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.apply")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	var req *transport.ProfileUpdateRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		l.Warn("edit_profile_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ProfileUpdateResponse{Message: "invalid body"})
	}
	if req.Empty() {
		l.Warn("edit_profile_error", "status", 400, "reason", "no data provided")
		return c.JSON(http.StatusBadRequest, transport.ProfileUpdateResponse{Message: "No data provided"})
	}
	if err := c.Validate(req); err != nil {
		l.Warn("edit_profile_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ProfileUpdateResponse{Message: err.Error()})
	}

	loginChanged, err := h.Svc.Apply(ctx, login, req)
	if err != nil {
		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			l.Error("edit_profile_error", "status", code, "error", err)
		} else {
			l.Warn("edit_profile_error", "status", code, "error", err)
		}
		return c.JSON(code, transport.ProfileUpdateResponse{Message: msg})
	}

	resp := transport.ProfileUpdateResponse{Success: true, Message: "Profile updated", LoginChanged: loginChanged}
	if loginChanged {
		// the session was issued for the old login
		c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", h.SecureCookie))
		c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", h.SecureCookie))
		setFlash(c, loggedOutMessage, h.SecureCookie)
		resp.Redirect = "/"
	}

	l.Info("profile_updated", "login_changed", loginChanged)
	return c.JSON(http.StatusOK, resp)
}
