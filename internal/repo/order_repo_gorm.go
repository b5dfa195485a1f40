package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
)

type OrderRepo struct{ Base }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{NewBase(db)} }

// Create stores the order and its items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	ensureID(&o.ID)
	for i := range o.Items {
		ensureID(&o.Items[i].ID)
		o.Items[i].OrderID = o.ID
	}
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	ok, err := first(r.withItems(ctx).Where("id = ?", id), &o)
	if !ok {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.withItems(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.withItems(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *domain.Order) error {
	return r.DB(ctx).Model(o).Update("payment_status", o.PaymentStatus).Error
}

func (r *OrderRepo) withItems(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Preload("Items").Preload("Items.Product")
}
