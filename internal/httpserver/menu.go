package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type MenuHTTP struct {
	Svc          *service.MenuService
	SecureCookie bool
}

type visitorPage struct {
	Login  string
	Dishes []transport.MenuItemResponse
}

type homePage struct {
	Flash string
}

func (h *MenuHTTP) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", homePage{Flash: popFlash(c, h.SecureCookie)})
}

func (h *MenuHTTP) VisitorPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.page")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	dishes, err := h.Svc.List(ctx)
	if err != nil {
		return fail(c, l, "menu_page_error", err)
	}
	return c.Render(http.StatusOK, "visitor.html", visitorPage{Login: login, Dishes: dishes})
}

func (h *MenuHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	dishes, err := h.Svc.List(ctx)
	if err != nil {
		return fail(c, l, "menu_list_error", err)
	}
	return c.JSON(http.StatusOK, dishes)
}

func (h *MenuHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	q := c.QueryParam("q")
	if q == "" {
		return badRequest(c, l, "menu_search_error", "q is required", nil)
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	res, err := h.Svc.Search(ctx, q, page, size)
	if err != nil {
		return fail(c, l, "menu_search_error", err)
	}
	return c.JSON(http.StatusOK, res)
}
