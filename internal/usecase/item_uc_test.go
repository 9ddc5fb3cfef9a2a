package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

func TestItemCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.items.Create(ctx, usecase.ItemParams{
		Name:        "Teclado Mecánico RGB",
		Description: "Teclado gaming con switches azules.",
		Price:       dec("39.99"),
		Stock:       50,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := f.items.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teclado Mecánico RGB", got.Name)
	assert.True(t, got.Price.Equal(dec("39.99")))
	assert.Equal(t, 50, got.Stock)
}

func TestItemGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemList(t *testing.T) {
	f := newFixture(t)
	a := f.createItem(t, "Teclado Mecánico RGB", "39.99", 50)
	b := f.createItem(t, "Taza Cerámica", "29.99", 120)

	items, err := f.items.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, b.ID, items[1].ID)
}

func TestItemUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.createItem(t, "Teclado Mecánico RGB", "39.99", 50)

	_, err := f.items.Update(ctx, it.ID, usecase.ItemParams{
		Name:        "Teclado Mecánico",
		Description: "Teclado gaming con switches azules y verdes.",
		Price:       dec("40.00"),
		Stock:       10,
	})
	require.NoError(t, err)

	got, err := f.items.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teclado Mecánico", got.Name)
	assert.True(t, got.Price.Equal(dec("40.00")))
	assert.Equal(t, 10, got.Stock)
}

func TestItemSoftDeleteKeepsRowAndZeroesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCustomer(t, "00000000T")
	keyboard := f.createItem(t, "Teclado Mecánico RGB", "39.99", 50)
	mug := f.createItem(t, "Taza Cerámica", "29.99", 120)

	p, err := f.purchases.Create(ctx, usecase.CreatePurchaseParams{
		CustomerTaxID:   c.TaxID,
		DeliveryAddress: "Calle Temporal 1",
		Items: []usecase.PurchaseItem{
			{ItemID: keyboard.ID, Quantity: 2},
			{ItemID: mug.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, keyboard.ID))

	// the row survives with the same id, but every field is blanked
	ghost, err := f.items.Get(ctx, keyboard.ID)
	require.NoError(t, err)
	assert.Equal(t, keyboard.ID, ghost.ID)
	assert.Empty(t, ghost.Name)
	assert.Empty(t, ghost.Description)
	assert.True(t, ghost.Price.IsZero())
	assert.Zero(t, ghost.Stock)

	s := f.store.Session()
	defer s.Close()
	zeroed, err := s.LinesByItem(ctx, keyboard.ID)
	require.NoError(t, err)
	require.Len(t, zeroed, 1)
	assert.Zero(t, zeroed[0].Quantity)
	assert.True(t, zeroed[0].PriceAtPurchase.IsZero())

	// the other item's line is untouched
	intact, err := s.LinesByItem(ctx, mug.ID)
	require.NoError(t, err)
	require.Len(t, intact, 1)
	assert.Equal(t, 2, intact[0].Quantity)
	assert.True(t, intact[0].PriceAtPurchase.Equal(dec("59.98")))

	// the purchase header still references both lines
	reloaded, err := f.purchases.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Lines(), 2)
}

func TestItemDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.items.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
