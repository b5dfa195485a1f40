package domain

import (
	"context"
	"time"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
)

type ShippingAddress struct {
	FirstName string `gorm:"size:128" json:"firstName" binding:"required"`
	LastName  string `gorm:"size:128" json:"lastName" binding:"required"`
	Address   string `gorm:"size:512" json:"address" binding:"required"`
	Phone     string `gorm:"size:64" json:"phone" binding:"required"`
	Country   string `gorm:"size:128" json:"country" binding:"required"`
	State     string `gorm:"size:128" json:"state" binding:"required"`
}

type Order struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"index;size:36;not null" json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	PaymentStatus   string          `gorm:"size:16;not null;default:pending" json:"paymentStatus"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem carries no price; prices are always read live.
type OrderItem struct {
	ID        string   `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string   `gorm:"index;size:36;not null" json:"-"`
	ProductID string   `gorm:"size:36" json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product"`
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
}
