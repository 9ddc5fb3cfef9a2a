package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

// RunScenario exercises the full aggregate lifecycle against the configured
// database and fails on the first violated expectation: create a customer
// with fiscal info, create catalog items, place a purchase whose total must
// equal the exact sum of its frozen line prices, update customer and item,
// delete the customer and prove that the purchase survives detached, then
// soft-delete an item.
func (a *App) RunScenario(ctx context.Context) error {
	const taxID = "00000000T"

	log.Info().Str("tax_id", taxID).Msg("creating customer")
	customer, err := a.Customers.Create(ctx, usecase.CreateCustomerParams{
		TaxID:         taxID,
		FullName:      "Cliente Temporal",
		Email:         "cliente.temp@example.com",
		Phone:         "666777888",
		FiscalAddress: "Calle Temporal 123",
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	read, err := a.Customers.Get(ctx, customer.TaxID)
	if err != nil {
		return fmt.Errorf("read customer back: %w", err)
	}
	if read.FiscalInfo() == nil || read.FiscalInfo().Customer() != read {
		return errors.New("fiscal info not linked back to its customer")
	}
	log.Info().Str("name", read.FullName).Str("phone", read.FiscalInfo().Phone).Msg("customer created")

	keyboard, err := a.Items.Create(ctx, usecase.ItemParams{
		Name:        "Teclado Mecánico RGB",
		Description: "Teclado gaming con switches azules.",
		Price:       decimal.RequireFromString("39.99"),
		Stock:       50,
	})
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	mug, err := a.Items.Create(ctx, usecase.ItemParams{
		Name:        "Taza Cerámica",
		Description: "Taza de desayuno.",
		Price:       decimal.RequireFromString("29.99"),
		Stock:       120,
	})
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	log.Info().Int("keyboard_id", keyboard.ID).Int("mug_id", mug.ID).Msg("items created")

	purchase, err := a.Purchases.Create(ctx, usecase.CreatePurchaseParams{
		CustomerTaxID:   taxID,
		DeliveryAddress: "Calle Temporal 1",
		Items: []usecase.PurchaseItem{
			{ItemID: keyboard.ID, Quantity: 2},
			{ItemID: mug.ID, Quantity: 2},
		},
	})
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	wantTotal := decimal.RequireFromString("139.96")
	if !purchase.Total.Equal(wantTotal) {
		return fmt.Errorf("purchase total %s, want %s", purchase.Total, wantTotal)
	}
	log.Info().Int("purchase_id", purchase.ID).Str("total", purchase.Total.String()).Msg("purchase created")

	if _, err := a.Customers.Update(ctx, taxID, usecase.UpdateCustomerParams{
		FullName:           "Luis Pérez (Actualizado)",
		Email:              "luis.perez.actualizado@example.com",
		Phone:              "+34 600 999 000",
		FiscalAddress:      "Av. Prueba 10, 08002 Barcelona",
		NextPurchaseStatus: domain.StatusShipped,
	}); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	log.Info().Msg("customer updated, first purchase advanced to SHIPPED")

	if _, err := a.Items.Update(ctx, keyboard.ID, usecase.ItemParams{
		Name:        "Teclado Mecánico",
		Description: "Teclado gaming con switches azules y verdes.",
		Price:       decimal.RequireFromString("40.00"),
		Stock:       10,
	}); err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if err := a.Customers.Delete(ctx, taxID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	log.Info().Msg("customer deleted")

	// Fresh unit of work: the purchase row must survive, detached.
	reloaded, err := a.Purchases.Get(ctx, purchase.ID)
	if err != nil {
		return fmt.Errorf("purchase did not survive customer delete: %w", err)
	}
	if reloaded.CustomerTaxID != nil || reloaded.Customer() != nil {
		return errors.New("reloaded purchase still references the deleted customer")
	}
	if got := len(reloaded.Lines()); got != 2 {
		return fmt.Errorf("reloaded purchase has %d lines, want 2", got)
	}
	log.Info().Int("purchase_id", reloaded.ID).Msg("purchase survived customer deletion, detached")

	if err := a.Items.Delete(ctx, keyboard.ID); err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	ghost, err := a.Items.Get(ctx, keyboard.ID)
	if err != nil {
		return fmt.Errorf("soft-deleted item no longer loadable: %w", err)
	}
	if ghost.Name != "" || !ghost.Price.IsZero() || ghost.Stock != 0 {
		return errors.New("soft-deleted item was not blanked")
	}
	log.Info().Int("item_id", ghost.ID).Msg("item soft-deleted, row retained")

	log.Info().Msg("scenario completed")
	return nil
}
