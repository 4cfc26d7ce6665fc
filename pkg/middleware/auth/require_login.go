package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

const (
	ContextLogin = "login"
	ContextRole  = "role"
)

// Refresher rotates a refresh token into a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret    []byte
	Refresher    Refresher
	SecureCookie bool
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher, secure bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:    secret,
		Refresher:    refresher,
		SecureCookie: secure,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

type failFunc func(c echo.Context, code int, msg string) error

func apiFail(_ echo.Context, code int, msg string) error {
	return echo.NewHTTPError(code, msg)
}

func pageFail(c echo.Context, _ int, _ string) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

// RequireAuth guards JSON endpoints: unauthenticated requests get 401.
func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil, apiFail)
}

// RequirePage guards rendered pages: unauthenticated requests go back to the home page.
func (m *AutoRefreshMiddleware) RequirePage(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil, pageFail)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	}, apiFail)
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc, fail failFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		var accessErr error = jwt.ErrTokenMalformed
		if accessCookie, err := c.Cookie(jwthelp.AccessCookie); err == nil && accessCookie.Value != "" {
			claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
			if err == nil {
				if validator != nil {
					if validationErr := validator(claims); validationErr != nil {
						return validationErr
					}
				}
				setUserContext(c, claims)
				return next(c)
			}
			accessErr = err
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			if errors.Is(accessErr, jwt.ErrTokenExpired) {
				m.clearAuthCookies(c)
			}
			return fail(c, http.StatusUnauthorized, "login required")
		}
		if m.Refresher == nil {
			m.clearAuthCookies(c)
			return fail(c, http.StatusUnauthorized, "login required")
		}

		pair, err := m.Refresher.Refresh(ctx, refreshCookie.Value)
		if err != nil {
			l.Warn("refresh_failed", "status", 401, "error", err)
			m.clearAuthCookies(c)
			return fail(c, http.StatusUnauthorized, "session expired")
		}

		c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp, m.SecureCookie))
		c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, m.SecureCookie))

		newClaims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if err != nil {
			m.clearAuthCookies(c)
			return fail(c, http.StatusUnauthorized, "new access token invalid")
		}
		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				return validationErr
			}
		}

		setUserContext(c, newClaims)
		return next(c)
	}
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", m.SecureCookie))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", m.SecureCookie))
}

// setUserContext also tags the request logger with the login so handler
// logs name the visitor they act for.
func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ContextLogin, claims.Subject)
	c.Set(ContextRole, claims.Role)

	req := c.Request()
	l := logging.FromContext(req.Context()).With("login", claims.Subject)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

// LoginFrom returns the authenticated login stored by the middleware.
func LoginFrom(c echo.Context) (string, bool) {
	s, ok := c.Get(ContextLogin).(string)
	return s, ok && s != ""
}
