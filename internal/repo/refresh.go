package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, login, jti, rawToken string, exp time.Time) error {
	rt := models.RefreshToken{
		JTI:       jti,
		TokenHash: jwthelp.Sha256Hex(rawToken),
		UserLogin: login,
		ExpiresAt: exp.UTC(),
	}
	return r.DB.WithContext(ctx).Create(&rt).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// RotateRefreshToken revokes the presented token and stores its replacement.
// The revoke only matches a live token with the same hash, so of two
// concurrent rotations of one token exactly one succeeds.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldRaw string, next models.RefreshToken) error {
	next.ExpiresAt = next.ExpiresAt.UTC()
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND token_hash = ? AND revoked = ? AND expires_at > ?",
				oldJTI, jwthelp.Sha256Hex(oldRaw), false, time.Now().UTC()).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshRevoked
		}
		return tx.Create(&next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", jwthelp.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

func revokeAllForLogin(tx *gorm.DB, login string) error {
	return tx.Model(&models.RefreshToken{}).
		Where("user_login = ? AND revoked = ?", login, false).
		Update("revoked", true).Error
}
