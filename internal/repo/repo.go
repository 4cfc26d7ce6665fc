package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrLoginTaken       = errors.New("login already taken")
	ErrRefreshRevoked   = errors.New("refresh token expired or revoked")
	ErrUnknownUser      = errors.New("user does not exist")
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
