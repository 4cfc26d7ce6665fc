package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("login = ?", u.Login).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func loginExists(tx *gorm.DB, login string) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("login = ?", login).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile writes u over the row stored under oldLogin. When u.Login
// differs, cart lines follow the new login and the old login's refresh
// tokens are revoked, all in the same transaction.
func (r *GormRepo) UpdateProfile(ctx context.Context, oldLogin string, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		renamed := u.Login != oldLogin
		if renamed {
			taken, err := loginExists(tx, u.Login)
			if err != nil {
				return err
			}
			if taken {
				return ErrLoginTaken
			}
		}

		res := tx.Model(&models.User{}).Where("login = ?", oldLogin).Updates(map[string]any{
			"login":            u.Login,
			"password_hash":    u.PasswordHash,
			"passport":         u.Passport,
			"last_name":        u.LastName,
			"first_name":       u.FirstName,
			"middle_name":      u.MiddleName,
			"bank_card_number": u.BankCardNumber,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !renamed {
			return nil
		}

		if err := tx.Model(&models.CartItem{}).
			Where("user_login = ?", oldLogin).
			Update("user_login", u.Login).Error; err != nil {
			return err
		}

		return revokeAllForLogin(tx, oldLogin)
	})
}

// IsNotFound reports whether err came from a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
