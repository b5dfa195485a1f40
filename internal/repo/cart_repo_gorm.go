package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gin-shop/internal/domain"
	"go-gin-shop/pkg/utils"
)

type CartRepo struct{ Base }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{NewBase(db)} }

func (r *CartRepo) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	q := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product").
		Where("user_id = ?", userID)
	ok, err := first(q, &c)
	if !ok {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepo) EnsureCart(ctx context.Context, userID string) (*domain.Cart, error) {
	c := domain.Cart{ID: utils.NewID(), UserID: userID}
	err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&c).Error
	if err != nil {
		return nil, err
	}
	var out domain.Cart
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CartRepo) AddQuantity(ctx context.Context, cartID, productID string, qty int) error {
	item := domain.CartItem{ID: utils.NewID(), CartID: cartID, ProductID: productID, Quantity: qty}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
}

func (r *CartRepo) SetQuantity(ctx context.Context, cartID, productID string, qty int) (bool, error) {
	res := r.DB(ctx).Model(&domain.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{"quantity": qty, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	return r.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&domain.CartItem{}).Error
}

// PricedLines joins each line with the product's current amount.
// Lines whose product is gone come back with an invalid Amount.
func (r *CartRepo) PricedLines(ctx context.Context, cartID string) ([]domain.PricedLine, error) {
	var out []domain.PricedLine
	err := r.DB(ctx).
		Table("cart_items AS ci").
		Select("ci.product_id AS product_id, p.name AS product_name, p.amount AS amount, ci.quantity AS quantity").
		Joins("LEFT JOIN products p ON p.id = ci.product_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.created_at").
		Scan(&out).Error
	return out, err
}
