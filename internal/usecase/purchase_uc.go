package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecorreia/eshop/internal/domain"
)

type PurchaseUC struct {
	Store domain.Store
}

type PurchaseItem struct {
	ItemID   int
	Quantity int
}

type CreatePurchaseParams struct {
	CustomerTaxID   string
	DeliveryAddress string
	Items           []PurchaseItem
}

// Create builds a purchase in two phases inside one transaction: the header
// is persisted and flushed first, because each line's composite key needs
// the generated purchase id. Lines freeze the item's current price at
// purchase time and the header's total is overwritten with their exact
// decimal sum before commit. Any failure rolls the whole purchase back.
func (uc *PurchaseUC) Create(ctx context.Context, p CreatePurchaseParams) (*domain.Purchase, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	customer, err := s.FindCustomer(ctx, p.CustomerTaxID)
	if err != nil {
		_ = s.Rollback()
		return nil, err
	}

	purchase := domain.NewPurchase(time.Now(), domain.StatusPending, p.DeliveryAddress)
	customer.AddPurchase(purchase)
	if err := s.Persist(purchase); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, req := range p.Items {
		item, err := s.FindItem(ctx, req.ItemID)
		if err != nil {
			_ = s.Rollback()
			return nil, err
		}
		price := item.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		line := domain.NewPurchaseLine(item, purchase, req.Quantity, price)
		purchase.AddLine(line)
		if err := s.Persist(line); err != nil {
			_ = s.Rollback()
			return nil, err
		}
		total = total.Add(price)
	}

	purchase.Total = total
	if err := s.Merge(purchase); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return purchase, nil
}

// Get reloads a purchase in a fresh unit of work, resolving its lines and,
// when still referenced, its customer through explicit queries. After a
// customer delete the reload must succeed with an absent customer reference.
func (uc *PurchaseUC) Get(ctx context.Context, id int) (*domain.Purchase, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	purchase, err := s.FindPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.LinesByPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		purchase.AddLine(l)
	}
	if purchase.CustomerTaxID != nil {
		c, err := s.FindCustomer(ctx, *purchase.CustomerTaxID)
		switch {
		case err == nil:
			c.AddPurchase(purchase)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return purchase, nil
}
