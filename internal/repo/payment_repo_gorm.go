package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
)

type PaymentRepo struct{ Base }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{NewBase(db)} }

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	ensureID(&p.ID)
	return r.DB(ctx).Create(p).Error
}

// FindByReference only matches payments owned by userID.
func (r *PaymentRepo) FindByReference(ctx context.Context, reference, userID string) (*domain.Payment, error) {
	var p domain.Payment
	ok, err := first(r.DB(ctx).Where("reference = ? AND user_id = ?", reference, userID), &p)
	if !ok {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	return r.DB(ctx).Save(p).Error
}
