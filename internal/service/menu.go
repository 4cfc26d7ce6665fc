package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

const NoIngredients = "No ingredients listed"

type MenuService struct {
	Repo  *repo.GormRepo
	Index *search.MenuIndex
}

// List returns every dish with its ingredient names joined by ", ".
func (s *MenuService) List(ctx context.Context) ([]transport.MenuItemResponse, error) {
	dishes, err := s.Repo.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListCompositions(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint][]string, len(dishes))
	for _, r := range rows {
		names[r.MenuID] = append(names[r.MenuID], r.IngredientName)
	}

	out := make([]transport.MenuItemResponse, 0, len(dishes))
	for _, d := range dishes {
		ingredients := NoIngredients
		if n := names[d.MenuID]; len(n) > 0 {
			ingredients = strings.Join(n, ", ")
		}
		out = append(out, transport.MenuItemResponse{
			MenuID:      d.MenuID,
			DishName:    d.DishName,
			Description: d.Description,
			Price:       d.Price,
			Image:       d.ImageURL,
			Ingredients: ingredients,
		})
	}
	return out, nil
}

// Reindex pushes the current menu into the search index.
func (s *MenuService) Reindex(ctx context.Context) (int, error) {
	if !s.Index.Enabled() {
		return 0, search.ErrDisabled
	}
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	docs := make([]search.Dish, len(items))
	for i, it := range items {
		docs[i] = search.Dish(it)
	}
	return len(docs), s.Index.IndexDishes(ctx, docs)
}

func (s *MenuService) Search(ctx context.Context, q string, page, size int) (*transport.MenuSearchResponse, error) {
	window := search.NewMenuPage(page, size)
	res, err := s.Index.Search(ctx, q, window.From(), window.Size)
	if err != nil {
		return nil, err
	}
	items := make([]transport.MenuItemResponse, len(res.Items))
	for i, d := range res.Items {
		items[i] = transport.MenuItemResponse(d)
	}
	return &transport.MenuSearchResponse{
		Total: res.Total,
		Page:  window.Page,
		Size:  window.Size,
		Pages: window.Pages(res.Total),
		Items: items,
	}, nil
}
