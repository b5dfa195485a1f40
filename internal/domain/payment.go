package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

type Payment struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	UserID    string          `gorm:"index;size:36;not null" json:"user"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reference string          `gorm:"uniqueIndex;size:128;not null" json:"reference"`
	Status    string          `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	FindByReference(ctx context.Context, reference, userID string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
}

// PaymentInit is what the gateway hands back when a transaction starts.
type PaymentInit struct {
	Reference        string
	AuthorizationURL string
}

// PaymentGateway talks to the external payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, email string, amountMinor int64) (*PaymentInit, error)
	// Verify returns the provider's raw transaction status.
	Verify(ctx context.Context, reference string) (string, error)
}
