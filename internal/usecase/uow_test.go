package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecorreia/eshop/internal/adapters/repo/postgres"
	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

type fixture struct {
	store     *postgres.Store
	customers *usecase.CustomerUC
	items     *usecase.ItemUC
	purchases *usecase.PurchaseUC
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Customer{},
		&domain.FiscalInfo{},
		&domain.Item{},
		&domain.Purchase{},
		&domain.PurchaseLine{},
	))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	store := postgres.NewStore(db)
	return &fixture{
		store:     store,
		customers: &usecase.CustomerUC{Store: store},
		items:     &usecase.ItemUC{Store: store},
		purchases: &usecase.PurchaseUC{Store: store},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) createCustomer(t *testing.T, taxID string) *domain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), usecase.CreateCustomerParams{
		TaxID:         taxID,
		FullName:      "Cliente Temporal",
		Email:         fmt.Sprintf("cliente.%s@example.com", strings.ToLower(taxID)),
		Phone:         "666777888",
		FiscalAddress: "Calle Temporal 123",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) createItem(t *testing.T, name, price string, stock int) *domain.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), usecase.ItemParams{
		Name:  name,
		Price: dec(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return it
}
