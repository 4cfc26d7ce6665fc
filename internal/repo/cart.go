package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, login string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).Where("user_login = ?", login).Order("dish_name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// requireOwner fails with ErrUnknownUser once login has been renamed or deleted.
func requireOwner(tx *gorm.DB, login string) error {
	ok, err := loginExists(tx, login)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownUser
	}
	return nil
}

// ReplaceCart drops every line owned by login and inserts items in one transaction.
func (r *GormRepo) ReplaceCart(ctx context.Context, login string, items []models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, login); err != nil {
			return err
		}
		if err := tx.Where("user_login = ?", login).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].UserLogin = login
		}
		return tx.Create(&items).Error
	})
}

// AddToCart increments an existing line or inserts a new one. item is reloaded
// with the stored row on return.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, item.UserLogin); err != nil {
			return err
		}
		res := tx.Model(&models.CartItem{}).
			Where("user_login = ? AND dish_name = ?", item.UserLogin, item.DishName).
			Update("qty", gorm.Expr("qty + ?", item.Qty))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return tx.Create(item).Error
		}

		if item.ImageURL != nil {
			if err := tx.Model(&models.CartItem{}).
				Where("user_login = ? AND dish_name = ? AND (image_url IS NULL OR image_url = '')", item.UserLogin, item.DishName).
				Update("image_url", *item.ImageURL).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_login = ? AND dish_name = ?", item.UserLogin, item.DishName).First(item).Error
	})
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, login, dishName string) error {
	res := r.DB.WithContext(ctx).
		Where("user_login = ? AND dish_name = ?", login, dishName).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
