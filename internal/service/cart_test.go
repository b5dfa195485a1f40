package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-shop/internal/domain"
)

func TestAddItemTwiceMergesLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Shoe", 30)

	_, err := f.carts.AddItem(ctx, "u1", p.ID, 1)
	require.NoError(t, err)
	c, err := f.carts.AddItem(ctx, "u1", p.ID, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	require.NotNil(t, c.Items[0].Product)
	assert.Equal(t, "Shoe", c.Items[0].Product.Name)

	total, err := f.carts.Total(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(90)))
}

func TestAddItemValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u1", "", 1)
	requireKind(t, err, domain.KindInvalidArgument)
	_, err = f.carts.AddItem(ctx, "u1", "p", 0)
	requireKind(t, err, domain.KindInvalidArgument)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Shoe", 30)

	_, err := f.carts.UpdateItem(ctx, "u1", p.ID, 2)
	requireKind(t, err, domain.KindNotFound)

	_, err = f.carts.AddItem(ctx, "u1", p.ID, 2)
	require.NoError(t, err)

	_, err = f.carts.UpdateItem(ctx, "u1", "other", 2)
	requireKind(t, err, domain.KindNotFound)

	for _, bad := range []int{0, -1} {
		_, err = f.carts.UpdateItem(ctx, "u1", p.ID, bad)
		requireKind(t, err, domain.KindInvalidArgument)
	}
	c, err := f.carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items[0].Quantity, "rejected update must not change quantity")

	c, err = f.carts.UpdateItem(ctx, "u1", p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Shoe", 30)

	_, err := f.carts.DeleteItem(ctx, "u1", p.ID)
	requireKind(t, err, domain.KindNotFound)

	_, err = f.carts.AddItem(ctx, "u1", p.ID, 1)
	require.NoError(t, err)
	c, err := f.carts.DeleteItem(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	c, err = f.carts.DeleteItem(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestGetWithoutCartIsNil(t *testing.T) {
	c, err := newFixture(t).carts.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestTotalSkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.product(t, "Shoe", 30)
	gone := f.product(t, "Hat", 12)

	_, err := f.carts.AddItem(ctx, "u1", keep.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "u1", gone.ID, 1)
	require.NoError(t, err)
	_, err = f.products.Delete(ctx, gone.ID)
	require.NoError(t, err)

	total, err := f.carts.Total(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(60)), total.String())
}

func TestTotalWithoutCart(t *testing.T) {
	_, err := newFixture(t).carts.Total(context.Background(), "u1")
	requireKind(t, err, domain.KindNotFound)
}

func TestTotalUsesLivePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Shoe", 30)
	_, err := f.carts.AddItem(ctx, "u1", p.ID, 2)
	require.NoError(t, err)

	p.Amount = decimal.NewFromInt(40)
	require.NoError(t, f.products.Update(ctx, p))

	total, err := f.carts.Total(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(80)))
}
