package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
)

type ResetTokenRepo struct{ Base }

func NewResetTokenRepo(db *gorm.DB) *ResetTokenRepo { return &ResetTokenRepo{NewBase(db)} }

// Replace drops the user's previous token and stores t.
func (r *ResetTokenRepo) Replace(ctx context.Context, t *domain.PasswordResetToken) error {
	ensureID(&t.ID)
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", t.UserID).Delete(&domain.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *ResetTokenRepo) FindValid(ctx context.Context, hash string, now time.Time) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	ok, err := first(r.DB(ctx).Where("token_hash = ? AND expires_at > ?", hash, now), &t)
	if !ok {
		return nil, err
	}
	return &t, nil
}

func (r *ResetTokenRepo) Delete(ctx context.Context, id string) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&domain.PasswordResetToken{}).Error
}
