package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ecorreia/eshop/internal/domain"
)

// Every operation runs as one unit of work: begin, mutate, flush, commit,
// with rollback on any failure and the session cleared on the way out.

func closeSession(s domain.Session) {
	s.Clear()
	_ = s.Close()
}

type CustomerUC struct {
	Store domain.Store
}

type CreateCustomerParams struct {
	TaxID         string
	FullName      string
	Email         string
	Phone         string
	FiscalAddress string
}

type UpdateCustomerParams struct {
	FullName      string
	Email         string
	Phone         string
	FiscalAddress string
	// NextPurchaseStatus, when set, advances the status of the customer's
	// first purchase. Used by the reference scenario; not a domain rule.
	NextPurchaseStatus string
}

// Create registers a customer together with its fiscal info in one
// transaction. A tax id that is already taken is rejected before any write.
func (uc *CustomerUC) Create(ctx context.Context, p CreateCustomerParams) (*domain.Customer, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	if _, err := s.FindCustomer(ctx, p.TaxID); err == nil {
		_ = s.Rollback()
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		_ = s.Rollback()
		return nil, err
	}

	c := domain.NewCustomer(p.TaxID, p.FullName, p.Email)
	info := &domain.FiscalInfo{Phone: p.Phone, FiscalAddress: p.FiscalAddress}
	c.SetFiscalInfo(info)

	if err := s.Persist(c); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Persist(info); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get loads a customer and eagerly resolves its fiscal info through an
// explicit query, linking both sides via the synchronizer.
func (uc *CustomerUC) Get(ctx context.Context, taxID string) (*domain.Customer, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	c, err := s.FindCustomer(ctx, taxID)
	if err != nil {
		return nil, err
	}
	info, err := s.FindFiscalInfo(ctx, taxID)
	switch {
	case err == nil:
		c.SetFiscalInfo(info)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return c, nil
}

// Update mutates name and email and upserts the fiscal info, creating one
// when the customer has none.
func (uc *CustomerUC) Update(ctx context.Context, taxID string, p UpdateCustomerParams) (*domain.Customer, error) {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	c, err := s.FindCustomer(ctx, taxID)
	if err != nil {
		_ = s.Rollback()
		return nil, err
	}
	c.FullName = p.FullName
	c.Email = p.Email

	info, err := s.FindFiscalInfo(ctx, taxID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		info = &domain.FiscalInfo{Phone: p.Phone, FiscalAddress: p.FiscalAddress}
		c.SetFiscalInfo(info)
		err = s.Persist(info)
	case err == nil:
		c.SetFiscalInfo(info)
		info.Phone = p.Phone
		info.FiscalAddress = p.FiscalAddress
		err = s.Merge(info)
	}
	if err != nil {
		_ = s.Rollback()
		return nil, err
	}

	if p.NextPurchaseStatus != "" {
		purchases, err := s.PurchasesByCustomer(ctx, taxID)
		if err != nil {
			_ = s.Rollback()
			return nil, err
		}
		if len(purchases) > 0 {
			first := purchases[0]
			c.AddPurchase(first)
			first.Status = p.NextPurchaseStatus
			if err := s.Merge(first); err != nil {
				_ = s.Rollback()
				return nil, err
			}
		}
	}

	if err := s.Merge(c); err != nil {
		_ = s.Rollback()
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the customer and, by ownership, its fiscal info. Purchases
// are retained: each one is anonymized (date, status, address and total
// cleared) and detached from the customer before the row is removed.
func (uc *CustomerUC) Delete(ctx context.Context, taxID string) error {
	s := uc.Store.Session()
	defer closeSession(s)

	if err := s.Begin(ctx); err != nil {
		return err
	}
	c, err := s.FindCustomer(ctx, taxID)
	if err != nil {
		_ = s.Rollback()
		return err
	}

	purchases, err := s.PurchasesByCustomer(ctx, taxID)
	if err != nil {
		_ = s.Rollback()
		return err
	}
	for _, p := range purchases {
		c.AddPurchase(p)
	}
	for _, p := range purchases {
		p.PurchasedAt = nil
		p.Status = ""
		p.DeliveryAddress = ""
		p.Total = decimal.Zero
		c.RemovePurchase(p)
		if err := s.Merge(p); err != nil {
			_ = s.Rollback()
			return err
		}
	}

	info, err := s.FindFiscalInfo(ctx, taxID)
	switch {
	case err == nil:
		if err := s.Remove(info); err != nil {
			_ = s.Rollback()
			return err
		}
	case !errors.Is(err, domain.ErrNotFound):
		_ = s.Rollback()
		return err
	}

	if err := s.Remove(c); err != nil {
		_ = s.Rollback()
		return err
	}
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return s.Commit()
}
