package main

import (
	"context"
	"errors"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type seedDish struct {
	dish        models.Menu
	ingredients []string
}

var sampleMenu = []seedDish{
	{
		dish:        models.Menu{DishName: "Borscht", Description: "Beetroot soup with sour cream", Price: 5.5},
		ingredients: []string{"Beetroot", "Cabbage", "Potato", "Sour cream"},
	},
	{
		dish:        models.Menu{DishName: "Caesar salad", Description: "Romaine, croutons and parmesan", Price: 7.25},
		ingredients: []string{"Romaine", "Croutons", "Parmesan", "Chicken"},
	},
	{
		dish:        models.Menu{DishName: "Pelmeni", Description: "Meat dumplings", Price: 8},
		ingredients: []string{"Flour", "Beef", "Pork", "Onion"},
	},
	{
		dish: models.Menu{DishName: "Black tea", Description: "Served with lemon", Price: 1.5},
	},
}

func runSeed(ctx context.Context, cfg config.Config) error {
	l := logging.FromContext(ctx)

	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	if err := repo.Migrate(ctx, gdb); err != nil {
		return err
	}
	r := &repo.GormRepo{DB: gdb}
	for _, s := range sampleMenu {
		dish := s.dish
		if err := r.SeedDish(ctx, &dish, s.ingredients); err != nil {
			return err
		}
	}
	l.Info("menu_seeded", "dishes", len(sampleMenu))

	index, err := search.New(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return err
	}
	n, err := (&service.MenuService{Repo: r, Index: index}).Reindex(ctx)
	if errors.Is(err, search.ErrDisabled) {
		l.Warn("search_disabled", "reason", "ES_URL is empty")
		return nil
	}
	if err != nil {
		return err
	}
	l.Info("menu_indexed", "dishes", n)
	return nil
}
