package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ecorreia/eshop/internal/domain"
)

type ItemUC struct {
	Store domain.Store
}

type ItemParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

func (uc *ItemUC) Create(ctx context.Context, p ItemParams) (*domain.Item, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	it := domain.NewItem(p.Name, p.Description, p.Price, p.Stock)
	if err := s.Persist(it); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}

func (uc *ItemUC) Get(ctx context.Context, id int) (*domain.Item, error) {
	s := uc.Store.Session()
	defer closeSession(s)
	return s.FindItem(ctx, id)
}

func (uc *ItemUC) List(ctx context.Context) ([]*domain.Item, error) {
	s := uc.Store.Session()
	defer closeSession(s)
	return s.Items(ctx)
}

func (uc *ItemUC) Update(ctx context.Context, id int, p ItemParams) (*domain.Item, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	it, err := s.FindItem(ctx, id)
	if err != nil {
		_ = s.Rollback()
		return nil, err
	}
	it.Name = p.Name
	it.Description = p.Description
	it.Price = p.Price
	it.Stock = p.Stock
	if err := s.Merge(it); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete soft-deletes an item: every linked line's quantity and price are
// zeroed and the item's own fields are blanked, but the row (and its
// surrogate id) stays so referenced purchase lines remain valid.
func (uc *ItemUC) Delete(ctx context.Context, id int) error {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return err
	}
	it, err := s.FindItem(ctx, id)
	if err != nil {
		_ = s.Rollback()
		return err
	}

	lines, err := s.LinesByItem(ctx, id)
	if err != nil {
		_ = s.Rollback()
		return err
	}
	for _, l := range lines {
		it.AddLine(l)
		l.Quantity = 0
		l.PriceAtPurchase = decimal.Zero
		if err := s.Merge(l); err != nil {
			_ = s.Rollback()
			return err
		}
	}

	it.Name = ""
	it.Description = ""
	it.Price = decimal.Zero
	it.Stock = 0
	if err := s.Merge(it); err != nil {
		_ = s.Rollback()
		return err
	}
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return s.Commit()
}
