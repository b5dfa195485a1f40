package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/repo/repotest"
)

func TestUserRepo(t *testing.T) {
	users := NewUserRepo(repotest.NewDB(t))
	ctx := context.Background()

	u := &domain.User{Email: "a@shop.test", Name: "Ann", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	dup := &domain.User{Email: "a@shop.test", Name: "Dup", PasswordHash: "x", Role: domain.RoleUser}
	err := users.Create(ctx, dup)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)

	require.NoError(t, users.Create(ctx, &domain.User{Email: "b@shop.test", Name: "Bob", PasswordHash: "x", Role: domain.RoleUser}))

	got, err := users.FindByEmail(ctx, "a@shop.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	list, total, err := users.List(ctx, "bob", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)

	ok, err := users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetTokenRepo(t *testing.T) {
	tokens := NewResetTokenRepo(repotest.NewDB(t))
	ctx := context.Background()
	now := time.Now()

	older := &domain.PasswordResetToken{UserID: "u1", TokenHash: "h1", CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	require.NoError(t, tokens.Replace(ctx, older))
	second := &domain.PasswordResetToken{UserID: "u1", TokenHash: "h2", CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	require.NoError(t, tokens.Replace(ctx, second))

	got, err := tokens.FindValid(ctx, "h1", now)
	require.NoError(t, err)
	assert.Nil(t, got, "replaced token must be gone")

	got, err = tokens.FindValid(ctx, "h2", now)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = tokens.FindValid(ctx, "h2", now.Add(31*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, got, "expired")

	require.NoError(t, tokens.Delete(ctx, second.ID))
	got, err = tokens.FindValid(ctx, "h2", now)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepoKeepsJSONColumns(t *testing.T) {
	products := NewProductRepo(repotest.NewDB(t))
	ctx := context.Background()

	p := &domain.Product{
		Name:         "Shoe",
		Category:     "shoes",
		Quantity:     3,
		Amount:       decimal.RequireFromString("19.99"),
		RegularPrice: decimal.NewNullDecimal(decimal.NewFromInt(25)),
		Description:  "d",
		Image:        domain.ImageList{{FileName: "a.png", FilePath: "/uploads/x.png", FileType: "image/png", FileSize: "1 KB"}},
		Ratings:      domain.Ratings{"average": 4.5},
	}
	require.NoError(t, products.Create(ctx, p))

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(p.Amount))
	assert.True(t, got.RegularPrice.Valid)
	assert.Equal(t, p.Image, got.Image)
	assert.Equal(t, 4.5, got.Ratings["average"])

	ok, err := products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCategoryRepo(t *testing.T) {
	cats := NewCategoryRepo(repotest.NewDB(t))
	ctx := context.Background()

	c := &domain.Category{Name: "shoes"}
	require.NoError(t, cats.Create(ctx, c))
	err := cats.Create(ctx, &domain.Category{Name: "shoes"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	got, err := cats.FindByName(ctx, "shoes")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	got, err = cats.FindByName(ctx, "hats")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := cats.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	list, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderRepo(t *testing.T) {
	db := repotest.NewDB(t)
	orders := NewOrderRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	p := &domain.Product{Name: "Shoe", Category: "shoes", Amount: decimal.NewFromInt(30), Description: "d"}
	require.NoError(t, products.Create(ctx, p))

	o := &domain.Order{
		UserID:          "u1",
		Items:           []domain.OrderItem{{ProductID: p.ID, Quantity: 2}, {ProductID: "gone", Quantity: 1}},
		ShippingAddress: domain.ShippingAddress{FirstName: "A", LastName: "B", Address: "1 St", Phone: "1", Country: "NG", State: "LA"},
		PaymentStatus:   domain.OrderPending,
	}
	require.NoError(t, orders.Create(ctx, o))

	mine, err := orders.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Items, 2)
	assert.Equal(t, "NG", mine[0].ShippingAddress.Country)
	for _, it := range mine[0].Items {
		if it.ProductID == p.ID {
			require.NotNil(t, it.Product)
			assert.Equal(t, "Shoe", it.Product.Name)
		} else {
			assert.Nil(t, it.Product)
		}
	}

	o.PaymentStatus = domain.OrderCompleted
	require.NoError(t, orders.UpdateStatus(ctx, o))
	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.PaymentStatus)

	none, err := orders.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentRepoScopesByUser(t *testing.T) {
	payments := NewPaymentRepo(repotest.NewDB(t))
	ctx := context.Background()

	p := &domain.Payment{UserID: "u1", Amount: decimal.NewFromInt(90), Reference: "ref-1", Status: domain.PaymentPending}
	require.NoError(t, payments.Create(ctx, p))

	got, err := payments.FindByReference(ctx, "ref-1", "u2")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = payments.FindByReference(ctx, "ref-1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	got.Status = domain.PaymentSuccess
	require.NoError(t, payments.Update(ctx, got))
	got, err = payments.FindByReference(ctx, "ref-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, got.Status)
}
