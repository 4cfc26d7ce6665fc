package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/pkg/metrics"
	authmw "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
	"github.com/Skotchmaster/restaurant/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/restaurant/pkg/middleware/logging"
	"github.com/Skotchmaster/restaurant/pkg/validate"
)

type Deps struct {
	DB             *gorm.DB
	CartHandler    *CartHTTP
	ProfileHandler *ProfileHTTP
	AuthHandler    *AuthHTTP
	MenuHandler    *MenuHTTP
	Auth           *authmw.AutoRefreshMiddleware
	Metrics        *metrics.HTTPMetrics
}

// NewEcho builds the server with the shared middleware chain.
func NewEcho(logger *slog.Logger, m *metrics.HTTPMetrics) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = validate.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	if m != nil {
		e.Use(m.Middleware)
	}
	e.Use(csrf.SameOrigin())
	return e, nil
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	e.GET("/", d.MenuHandler.Home)
	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.Logout, d.Auth.RequirePage)

	e.GET("/visitor", d.MenuHandler.VisitorPage, d.Auth.RequirePage)
	e.GET("/edit_profile", d.ProfileHandler.EditPage, d.Auth.RequirePage)
	e.POST("/edit_profile", d.ProfileHandler.Apply, d.Auth.RequireAuth)

	api := e.Group("/api", d.Auth.RequireAuth)

	api.GET("/menu", d.MenuHandler.List)
	api.GET("/menu/search", d.MenuHandler.Search)

	cart := api.Group("/cart")

	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.ReplaceCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.POST("/remove", d.CartHandler.RemoveFromCart)
	cart.GET("/summary", d.CartHandler.Summary)
}
