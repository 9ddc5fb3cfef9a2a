package app

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/ecorreia/eshop/internal/adapters/httpserver"
	"github.com/ecorreia/eshop/internal/adapters/repo/postgres"
	"github.com/ecorreia/eshop/internal/domain"
	"github.com/ecorreia/eshop/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Store     domain.Store
	Customers *usecase.CustomerUC
	Items     *usecase.ItemUC
	Purchases *usecase.PurchaseUC
}

func New(db *gorm.DB) *App {
	store := postgres.NewStore(db)
	return &App{
		DB:        db,
		Store:     store,
		Customers: &usecase.CustomerUC{Store: store},
		Items:     &usecase.ItemUC{Store: store},
		Purchases: &usecase.PurchaseUC{Store: store},
	}
}

func (a *App) Migrate() error {
	return a.DB.AutoMigrate(
		&domain.Customer{},
		&domain.FiscalInfo{},
		&domain.Item{},
		&domain.Purchase{},
		&domain.PurchaseLine{},
	)
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Customers, a.Items, a.Purchases)
}
