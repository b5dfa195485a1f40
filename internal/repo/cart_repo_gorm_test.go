package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-shop/internal/domain"
	"go-gin-shop/internal/repo/repotest"
)

func TestEnsureCartIsIdempotent(t *testing.T) {
	db := repotest.NewDB(t)
	carts := NewCartRepo(db)
	ctx := context.Background()

	a, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)
	b, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	var n int64
	require.NoError(t, db.Model(&domain.Cart{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestAddQuantityUpsertsOneLine(t *testing.T) {
	db := repotest.NewDB(t)
	carts := NewCartRepo(db)
	ctx := context.Background()

	c, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, carts.AddQuantity(ctx, c.ID, "p1", 1))
	require.NoError(t, carts.AddQuantity(ctx, c.ID, "p1", 2))

	got, err := carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestAddQuantityConcurrent(t *testing.T) {
	db := repotest.NewDB(t)
	carts := NewCartRepo(db)
	ctx := context.Background()
	c, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, carts.AddQuantity(ctx, c.ID, "p1", 1))
		}()
	}
	wg.Wait()

	got, err := carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 10, got.Items[0].Quantity)
}

func TestSetQuantityAndRemove(t *testing.T) {
	db := repotest.NewDB(t)
	carts := NewCartRepo(db)
	ctx := context.Background()
	c, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)

	ok, err := carts.SetQuantity(ctx, c.ID, "missing", 4)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, carts.AddQuantity(ctx, c.ID, "p1", 1))
	ok, err = carts.SetQuantity(ctx, c.ID, "p1", 4)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, carts.RemoveItem(ctx, c.ID, "p1"))
	require.NoError(t, carts.RemoveItem(ctx, c.ID, "p1"))
	got, err := carts.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestPricedLinesLeavesMissingProductsUnpriced(t *testing.T) {
	db := repotest.NewDB(t)
	carts := NewCartRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	p := &domain.Product{Name: "Shoe", Category: "shoes", Quantity: 5, Amount: decimal.NewFromInt(30), Description: "d"}
	require.NoError(t, products.Create(ctx, p))
	c, err := carts.EnsureCart(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, carts.AddQuantity(ctx, c.ID, p.ID, 2))
	require.NoError(t, carts.AddQuantity(ctx, c.ID, "gone", 1))

	lines, err := carts.PricedLines(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byID := map[string]domain.PricedLine{}
	for _, l := range lines {
		byID[l.ProductID] = l
	}
	assert.True(t, byID[p.ID].Amount.Valid)
	assert.True(t, byID[p.ID].Amount.Decimal.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Shoe", byID[p.ID].ProductName)
	assert.Equal(t, 2, byID[p.ID].Quantity)
	assert.False(t, byID["gone"].Amount.Valid)
}

func TestFindByUserWithoutCart(t *testing.T) {
	got, err := NewCartRepo(repotest.NewDB(t)).FindByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}
