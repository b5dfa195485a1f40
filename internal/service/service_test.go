package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-shop/internal/core/auth"
	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/repo"
	"go-gin-shop/internal/repo/repotest"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct{ To, Subject, Body string }

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeGateway struct {
	initEmail  string
	initAmount int64
	reference  string
	status     string
	err        error
}

func (g *fakeGateway) Initialize(_ context.Context, email string, amount int64) (*domain.PaymentInit, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.initEmail, g.initAmount = email, amount
	return &domain.PaymentInit{Reference: g.reference, AuthorizationURL: "https://pay.test/" + g.reference}, nil
}

func (g *fakeGateway) Verify(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.status, nil
}

type fixture struct {
	users    *UserService
	catalog  *CatalogService
	carts    *CartService
	orders   *OrderService
	payments *PaymentService
	mail     *fakeMailer
	gateway  *fakeGateway
	products *repo.ProductRepo
	cats     *repo.CategoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	log := zap.NewNop()
	jwt := &auth.JWTer{Secret: []byte("test"), Issuer: "go-gin-shop", TTL: 24 * time.Hour}
	f := &fixture{mail: &fakeMailer{}, gateway: &fakeGateway{reference: "ref-1", status: "success"}}
	f.products = repo.NewProductRepo(db)
	f.cats = repo.NewCategoryRepo(db)
	f.users = NewUserService(repo.NewUserRepo(db), repo.NewResetTokenRepo(db), jwt, f.mail, "http://front.test/", log)
	f.catalog = NewCatalogService(f.cats, f.products, nil, time.Minute, log)
	f.carts = NewCartService(repo.NewCartRepo(db), log)
	f.orders = NewOrderService(repo.NewOrderRepo(db), log)
	f.payments = NewPaymentService(f.carts, repo.NewPaymentRepo(db), f.gateway, log)
	return f
}

// product inserts a product directly, bypassing category checks.
func (f *fixture) product(t *testing.T, name string, amount int64) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Category: "misc", Quantity: 10, Amount: decimal.NewFromInt(amount), Description: name}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func requireKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "err: %v", err)
}

func ptr[T any](v T) *T { return &v }
