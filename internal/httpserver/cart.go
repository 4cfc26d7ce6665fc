package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	authmw "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
)

type CartHTTP struct {
	Svc *service.CartService
}

func currentLogin(c echo.Context) (string, error) {
	login, ok := authmw.LoginFrom(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return login, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.Fetch(ctx, login)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}

	out := make([]transport.CartItemResponse, len(items))
	for i, it := range items {
		out[i] = transport.CartItemResponse{
			DishName: it.DishName,
			Price:    it.Price,
			Image:    it.Image(),
			Qty:      it.Qty,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHTTP) ReplaceCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.replace")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	var items []transport.CartItemRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &items); err != nil {
		return badRequest(c, l, "replace_cart_error", "cart payload must be a list of objects", err)
	}
	for _, it := range items {
		if err := c.Validate(&it); err != nil {
			return badRequest(c, l, "replace_cart_error", err.Error(), err)
		}
	}

	if err := h.Svc.Replace(ctx, login, items); err != nil {
		return fail(c, l, "replace_cart_error", err)
	}

	l.Info("cart_replaced", "items", len(items))
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: "ok"})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_to_cart_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, l, "add_to_cart_error", err.Error(), err)
	}

	item, err := h.Svc.Add(ctx, login, req)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}

	l.Info("item_added", "dish_name", item.DishName, "qty", item.Qty)
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: "added"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	var req transport.RemoveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "remove_from_cart_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, l, "remove_from_cart_error", err.Error(), err)
	}

	if err := h.Svc.Remove(ctx, login, req.DishName); err != nil {
		return fail(c, l, "remove_from_cart_error", err)
	}

	l.Info("item_removed", "dish_name", req.DishName)
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: "removed"})
}

func (h *CartHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.summary")

	login, err := currentLogin(c)
	if err != nil {
		return err
	}

	sum, err := h.Svc.Summary(ctx, login)
	if err != nil {
		return fail(c, l, "cart_summary_error", err)
	}
	return c.JSON(http.StatusOK, transport.CartSummaryResponse{
		TotalItems: sum.TotalItems,
		TotalPrice: sum.TotalPrice.StringFixed(2),
	})
}
