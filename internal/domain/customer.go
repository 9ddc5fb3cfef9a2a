package domain

import (
	"time"
)

// Customer is keyed by an externally assigned tax id; it is never
// regenerated. Relationship pointers are maintained exclusively through the
// mutators so collection membership and back-references cannot be observed
// out of sync.
type Customer struct {
	TaxID        string    `gorm:"column:tax_id;primaryKey;size:30"`
	FullName     string    `gorm:"column:full_name;size:100;not null"`
	Email        string    `gorm:"size:150;uniqueIndex;not null"`
	RegisteredAt time.Time `gorm:"column:registered_at;<-:create"`

	fiscalInfo *FiscalInfo
	purchases  []*Purchase
}

func (Customer) TableName() string { return "customer" }

func NewCustomer(taxID, fullName, email string) *Customer {
	return &Customer{
		TaxID:        taxID,
		FullName:     fullName,
		Email:        email,
		RegisteredAt: time.Now(),
	}
}

func (c *Customer) FiscalInfo() *FiscalInfo { return c.fiscalInfo }

// SetFiscalInfo links info to the customer and fixes its shared primary key.
// Passing nil detaches the current info, clearing its back-reference. After
// the call either c.FiscalInfo().Customer() == c or both sides are nil.
func (c *Customer) SetFiscalInfo(info *FiscalInfo) {
	if c.fiscalInfo != nil && c.fiscalInfo != info {
		c.fiscalInfo.customer = nil
	}
	if info != nil {
		info.customer = c
		info.TaxID = c.TaxID
	}
	c.fiscalInfo = info
}

func (c *Customer) Purchases() []*Purchase { return c.purchases }

func (c *Customer) AddPurchase(p *Purchase) {
	for _, have := range c.purchases {
		if have == p {
			return
		}
	}
	c.purchases = append(c.purchases, p)
	p.SetCustomer(c)
}

// RemovePurchase detaches p from the customer. Removing a purchase that is
// not linked is a no-op.
func (c *Customer) RemovePurchase(p *Purchase) {
	for i, have := range c.purchases {
		if have == p {
			c.purchases = append(c.purchases[:i], c.purchases[i+1:]...)
			p.SetCustomer(nil)
			return
		}
	}
}

// FiscalInfo shares the owning customer's tax id as primary key and cannot
// outlive it: deleting the customer removes its fiscal info.
type FiscalInfo struct {
	TaxID         string `gorm:"column:tax_id;primaryKey;size:30"`
	Phone         string `gorm:"size:30"`
	FiscalAddress string `gorm:"column:fiscal_address;size:255"`

	customer *Customer
}

func (FiscalInfo) TableName() string { return "fiscal_info" }

func (f *FiscalInfo) Customer() *Customer { return f.customer }
