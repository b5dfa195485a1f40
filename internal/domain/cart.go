package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is unique per user; each product appears at most once in Items.
type Cart struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"uniqueIndex;size:36;not null" json:"user"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CartID    string    `gorm:"uniqueIndex:idx_cart_product;size:36;not null" json:"-"`
	ProductID string    `gorm:"uniqueIndex:idx_cart_product;size:36;not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PricedLine is a cart line joined with the live product price.
// Amount is invalid when the product no longer resolves.
type PricedLine struct {
	ProductID   string
	ProductName string
	Amount      decimal.NullDecimal
	Quantity    int
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*Cart, error)
	// EnsureCart creates the user's cart if absent and returns it.
	EnsureCart(ctx context.Context, userID string) (*Cart, error)
	// AddQuantity inserts the line or increments its quantity atomically.
	AddQuantity(ctx context.Context, cartID, productID string, qty int) error
	SetQuantity(ctx context.Context, cartID, productID string, qty int) (bool, error)
	RemoveItem(ctx context.Context, cartID, productID string) error
	PricedLines(ctx context.Context, cartID string) ([]PricedLine, error)
}
