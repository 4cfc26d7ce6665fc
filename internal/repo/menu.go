package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

type DishIngredient struct {
	MenuID         uint
	IngredientName string
}

func (r *GormRepo) ListMenu(ctx context.Context) ([]models.Menu, error) {
	dishes := make([]models.Menu, 0)
	if err := r.DB.WithContext(ctx).Order("menu_id").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// ListCompositions returns one row per (dish, ingredient) pair ordered by dish.
func (r *GormRepo) ListCompositions(ctx context.Context) ([]DishIngredient, error) {
	rows := make([]DishIngredient, 0)
	err := r.DB.WithContext(ctx).
		Table("composition").
		Select("composition.menu_id AS menu_id, ingredients.ingredient_name AS ingredient_name").
		Joins("JOIN ingredients ON ingredients.ingredient_id = composition.ingredient_id").
		Order("composition.menu_id, ingredients.ingredient_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SeedDish stores a dish with its ingredients. Existing dishes and
// ingredients are reused by name, so seeding twice is harmless.
func (r *GormRepo) SeedDish(ctx context.Context, dish *models.Menu, ingredients []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dish_name = ?", dish.DishName).FirstOrCreate(dish).Error; err != nil {
			return err
		}
		for _, name := range ingredients {
			ing := models.Ingredient{IngredientName: name}
			if err := tx.Where("ingredient_name = ?", name).FirstOrCreate(&ing).Error; err != nil {
				return err
			}
			comp := models.Composition{MenuID: dish.MenuID, IngredientID: ing.IngredientID}
			if err := tx.Where(&comp).FirstOrCreate(&comp).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
