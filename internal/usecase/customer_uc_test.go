package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

func TestCustomerCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.customers.Create(ctx, usecase.CreateCustomerParams{
		TaxID:         "00000000T",
		FullName:      "Cliente Temporal",
		Email:         "cliente.temp@example.com",
		Phone:         "666777888",
		FiscalAddress: "Calle Temporal 123",
	})
	require.NoError(t, err)
	assert.False(t, created.RegisteredAt.IsZero())

	got, err := f.customers.Get(ctx, "00000000T")
	require.NoError(t, err)
	assert.Equal(t, "Cliente Temporal", got.FullName)
	assert.Equal(t, "cliente.temp@example.com", got.Email)
	require.NotNil(t, got.FiscalInfo())
	assert.Equal(t, "666777888", got.FiscalInfo().Phone)
	assert.Equal(t, "Calle Temporal 123", got.FiscalInfo().FiscalAddress)
	assert.Same(t, got, got.FiscalInfo().Customer())
}

func TestCustomerCreateDuplicateTaxIDWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createCustomer(t, "00000000T")

	_, err := f.customers.Create(ctx, usecase.CreateCustomerParams{
		TaxID:    "00000000T",
		FullName: "Impostor",
		Email:    "impostor@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := f.customers.Get(ctx, "00000000T")
	require.NoError(t, err)
	assert.Equal(t, "Cliente Temporal", got.FullName, "existing row untouched")
	assert.Equal(t, "cliente.00000000t@example.com", got.Email)
}

func TestCustomerGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers.Get(context.Background(), "99999999Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createCustomer(t, "00000000T")

	_, err := f.customers.Update(ctx, "00000000T", usecase.UpdateCustomerParams{
		FullName:      "Luis Pérez (Actualizado)",
		Email:         "luis.perez.actualizado@example.com",
		Phone:         "+34 600 999 000",
		FiscalAddress: "Av. Prueba 10, 08002 Barcelona",
	})
	require.NoError(t, err)

	got, err := f.customers.Get(ctx, "00000000T")
	require.NoError(t, err)
	assert.Equal(t, "Luis Pérez (Actualizado)", got.FullName)
	assert.Equal(t, "luis.perez.actualizado@example.com", got.Email)
	require.NotNil(t, got.FiscalInfo())
	assert.Equal(t, "+34 600 999 000", got.FiscalInfo().Phone)
	assert.Equal(t, "Av. Prueba 10, 08002 Barcelona", got.FiscalInfo().FiscalAddress)
}

func TestCustomerUpdateCreatesMissingFiscalInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// seed a customer without fiscal info directly through the unit of work
	s := f.store.Session()
	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Persist(domain.NewCustomer("11111111A", "Sin Datos", "sin.datos@example.com")))
	require.NoError(t, s.Commit())
	require.NoError(t, s.Close())

	_, err := f.customers.Update(ctx, "11111111A", usecase.UpdateCustomerParams{
		FullName:      "Sin Datos",
		Email:         "sin.datos@example.com",
		Phone:         "600000001",
		FiscalAddress: "Calle Nueva 1",
	})
	require.NoError(t, err)

	got, err := f.customers.Get(ctx, "11111111A")
	require.NoError(t, err)
	require.NotNil(t, got.FiscalInfo())
	assert.Equal(t, "600000001", got.FiscalInfo().Phone)
	assert.Equal(t, "11111111A", got.FiscalInfo().TaxID)
}

func TestCustomerUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers.Update(context.Background(), "99999999Z", usecase.UpdateCustomerParams{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUpdateAdvancesFirstPurchaseStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCustomer(t, "00000000T")
	it := f.createItem(t, "Taza Cerámica", "29.99", 120)

	p, err := f.purchases.Create(ctx, usecase.CreatePurchaseParams{
		CustomerTaxID:   c.TaxID,
		DeliveryAddress: "Calle Temporal 1",
		Items:           []usecase.PurchaseItem{{ItemID: it.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.customers.Update(ctx, c.TaxID, usecase.UpdateCustomerParams{
		FullName:           c.FullName,
		Email:              c.Email,
		Phone:              "666777888",
		FiscalAddress:      "Calle Temporal 123",
		NextPurchaseStatus: domain.StatusShipped,
	})
	require.NoError(t, err)

	reloaded, err := f.purchases.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, reloaded.Status)
}

func TestCustomerDeleteKeepsPurchasesDetached(t *testing.T) {
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

	require.NoError(t, f.customers.Delete(ctx, c.TaxID))

	_, err = f.customers.Get(ctx, c.TaxID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the owned fiscal info row is gone too
	s := f.store.Session()
	defer s.Close()
	_, err = s.FindFiscalInfo(ctx, c.TaxID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	reloaded, err := f.purchases.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CustomerTaxID)
	assert.Nil(t, reloaded.Customer())
	assert.Nil(t, reloaded.PurchasedAt)
	assert.Empty(t, reloaded.Status)
	assert.Empty(t, reloaded.DeliveryAddress)
	assert.True(t, reloaded.Total.Equal(decimal.Zero))

	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 2, l.Quantity, "lines survive the customer delete untouched")
		assert.False(t, l.PriceAtPurchase.IsZero())
	}
}

func TestCustomerDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.customers.Delete(context.Background(), "99999999Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
