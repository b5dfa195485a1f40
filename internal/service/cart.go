package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

type CartService struct {
	carts domain.CartRepository
	log   *zap.Logger
}

func NewCartService(carts domain.CartRepository, log *zap.Logger) *CartService {
	return &CartService{carts: carts, log: log}
}

// Get returns the user's cart with products resolved, or nil if the
// user has none.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal("load cart", err)
	}
	return c, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.InvalidArgument("product is required")
	}
	if qty < 1 {
		return nil, domain.InvalidArgument("quantity should be 1 or more")
	}
	c, err := s.carts.EnsureCart(ctx, userID)
	if err != nil {
		return nil, domain.Internal("create cart", err)
	}
	if err := s.carts.AddQuantity(ctx, c.ID, productID, qty); err != nil {
		return nil, domain.Internal("add cart item", err)
	}
	return s.mustCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	c, err := s.mustCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasLine(c, productID) {
		return nil, domain.NotFound("item not found in cart")
	}
	if qty < 1 {
		return nil, domain.InvalidArgument("quantity should be 1 or more")
	}
	ok, err := s.carts.SetQuantity(ctx, c.ID, productID, qty)
	if err != nil {
		return nil, domain.Internal("update cart item", err)
	}
	if !ok {
		return nil, domain.NotFound("item not found in cart")
	}
	return s.mustCart(ctx, userID)
}

// DeleteItem is idempotent once the cart exists.
func (s *CartService) DeleteItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	c, err := s.mustCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, c.ID, productID); err != nil {
		return nil, domain.Internal("delete cart item", err)
	}
	return s.mustCart(ctx, userID)
}

// Total prices the cart at current product amounts.
func (s *CartService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, _, err := s.price(ctx, userID)
	return total, err
}

// price returns the cart total and how many lines the cart has.
func (s *CartService) price(ctx context.Context, userID string) (decimal.Decimal, int, error) {
	c, err := s.mustCart(ctx, userID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	lines, err := s.carts.PricedLines(ctx, c.ID)
	if err != nil {
		return decimal.Zero, 0, domain.Internal("price cart", err)
	}
	return SumLines(lines, s.log.With(zap.String("user_id", userID))), len(lines), nil
}

func (s *CartService) mustCart(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal("load cart", err)
	}
	if c == nil {
		return nil, domain.NotFound("cart not found")
	}
	return c, nil
}

func hasLine(c *domain.Cart, productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
