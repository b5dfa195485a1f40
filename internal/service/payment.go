package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

type PaymentService struct {
	carts    *CartService
	payments domain.PaymentRepository
	gateway  domain.PaymentGateway
	log      *zap.Logger
}

func NewPaymentService(carts *CartService, payments domain.PaymentRepository, gateway domain.PaymentGateway, log *zap.Logger) *PaymentService {
	return &PaymentService{carts: carts, payments: payments, gateway: gateway, log: log}
}

type PaymentStarted struct {
	PaymentID        string `json:"paymentId"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

type PaymentResult struct {
	PaymentID string          `json:"paymentId"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// Initialize charges the cart total, priced now, through the gateway.
func (s *PaymentService) Initialize(ctx context.Context, who domain.Identity) (*PaymentStarted, error) {
	total, lines, err := s.carts.price(ctx, who.UserID)
	if domain.KindOf(err) == domain.KindNotFound || (err == nil && lines == 0) {
		return nil, domain.InvalidArgument("cart is empty")
	}
	if err != nil {
		return nil, err
	}
	minor := MinorUnits(total)
	init, err := s.gateway.Initialize(ctx, who.Email, minor)
	if err != nil {
		return nil, gatewayError("initialize payment", err)
	}
	p := &domain.Payment{
		UserID:    who.UserID,
		Amount:    total,
		Reference: init.Reference,
		Status:    domain.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, domain.Internal("save payment", err)
	}
	s.log.Info("payment initialized",
		zap.String("payment_id", p.ID),
		zap.String("reference", p.Reference),
		zap.Int64("amount_minor", minor),
	)
	return &PaymentStarted{PaymentID: p.ID, Reference: p.Reference, AuthorizationURL: init.AuthorizationURL}, nil
}

// Verify asks the gateway first, then records success or failure on
// the caller's own payment.
func (s *PaymentService) Verify(ctx context.Context, who domain.Identity, reference string) (*PaymentResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.InvalidArgument("cannot validate payment")
	}
	status, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, gatewayError("verify payment", err)
	}
	p, err := s.payments.FindByReference(ctx, reference, who.UserID)
	if err != nil {
		return nil, domain.Internal("load payment", err)
	}
	if p == nil {
		return nil, domain.NotFound("payment not found")
	}
	if status == domain.PaymentSuccess {
		p.Status = domain.PaymentSuccess
	} else {
		p.Status = domain.PaymentFailed
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, domain.Internal("save payment", err)
	}
	s.log.Info("payment verified", zap.String("reference", reference), zap.String("status", p.Status))
	return &PaymentResult{PaymentID: p.ID, Reference: p.Reference, Amount: p.Amount, Status: p.Status}, nil
}

// gatewayError keeps a gateway's own domain error and its message.
func gatewayError(op string, err error) error {
	if domain.As(err) != nil {
		return err
	}
	return domain.Internal(op, err)
}
