package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

type OrderService struct {
	orders domain.OrderRepository
	log    *zap.Logger
}

func NewOrderService(orders domain.OrderRepository, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, log: log}
}

type OrderItemInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CreateOrderInput: a nil Items means the field was absent; an empty
// non-nil slice is a valid, empty order.
type CreateOrderInput struct {
	Items           []OrderItemInput        `json:"items" binding:"required"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress" binding:"required"`
}

// Create stores the order as pending. Items are not checked against
// the catalog and carry no price.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*domain.Order, error) {
	if in.Items == nil || in.ShippingAddress == nil {
		return nil, domain.InvalidArgument("items and shipping address are required")
	}
	addr := *in.ShippingAddress
	if err := checkAddress(&addr); err != nil {
		return nil, err
	}
	o := &domain.Order{
		UserID:          userID,
		Items:           make([]domain.OrderItem, 0, len(in.Items)),
		ShippingAddress: addr,
		PaymentStatus:   domain.OrderPending,
	}
	for _, it := range in.Items {
		o.Items = append(o.Items, domain.OrderItem{ProductID: it.Product, Quantity: it.Quantity})
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, domain.Internal("create order", err)
	}
	s.log.Info("order created", zap.String("order_id", o.ID), zap.String("user_id", userID), zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal("list orders", err)
	}
	return out, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	out, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, domain.Internal("list orders", err)
	}
	return out, nil
}

// UpdateStatus only moves an order to completed.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if status != domain.OrderCompleted {
		return nil, domain.InvalidArgument("invalid order status")
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load order", err)
	}
	if o == nil {
		return nil, domain.NotFound("order not found")
	}
	o.PaymentStatus = status
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return nil, domain.Internal("update order", err)
	}
	s.log.Info("order status updated", zap.String("order_id", id), zap.String("status", status))
	return o, nil
}

func checkAddress(a *domain.ShippingAddress) error {
	fields := []*string{&a.FirstName, &a.LastName, &a.Address, &a.Phone, &a.Country, &a.State}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return domain.InvalidArgument("shipping address requires firstName, lastName, address, phone, country and state")
		}
	}
	return nil
}
