package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Statuses used by the reference workflows. The column itself is free text.
const (
	StatusPending   = "PENDING"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
)

// Purchase is a purchase header. Its customer reference is nullable: a
// purchase survives the deletion of its customer and is then anonymized
// (date, status, address and total cleared) but keeps its lines.
type Purchase struct {
	ID              int             `gorm:"primaryKey"`
	PurchasedAt     *time.Time      `gorm:"column:purchased_at"`
	Status          string          `gorm:"size:30"`
	DeliveryAddress string          `gorm:"column:delivery_address;size:255"`
	Total           decimal.Decimal `gorm:"column:total_price;type:decimal(10,2);not null"`
	CustomerTaxID   *string         `gorm:"column:customer_tax_id;size:30;index"`

	customer *Customer
	lines    []*PurchaseLine
}

func (Purchase) TableName() string { return "purchase" }

func NewPurchase(at time.Time, status, deliveryAddress string) *Purchase {
	return &Purchase{
		PurchasedAt:     &at,
		Status:          status,
		DeliveryAddress: deliveryAddress,
		Total:           decimal.Zero,
	}
}

func (p *Purchase) Customer() *Customer { return p.customer }

// SetCustomer keeps the in-memory reference and the persisted foreign key
// column together. A nil customer detaches the purchase.
func (p *Purchase) SetCustomer(c *Customer) {
	p.customer = c
	if c == nil {
		p.CustomerTaxID = nil
		return
	}
	taxID := c.TaxID
	p.CustomerTaxID = &taxID
}

func (p *Purchase) Lines() []*PurchaseLine { return p.lines }

func (p *Purchase) AddLine(l *PurchaseLine) {
	for _, have := range p.lines {
		if have == l {
			return
		}
	}
	p.lines = append(p.lines, l)
	l.SetPurchase(p)
}

// RemoveLine is a no-op when l is not linked.
func (p *Purchase) RemoveLine(l *PurchaseLine) {
	for i, have := range p.lines {
		if have == l {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
			l.SetPurchase(nil)
			return
		}
	}
}

// LineKey is the composite identity of a purchase line. A component stays
// unset until the owning parent carries a generated id.
type LineKey struct {
	ItemID     *int `gorm:"column:item_id;primaryKey"`
	PurchaseID *int `gorm:"column:purchase_id;primaryKey"`
}

func (k LineKey) Complete() bool { return k.ItemID != nil && k.PurchaseID != nil }

// Equal is component-wise and only holds between complete keys; incomplete
// keys never compare equal, so unsaved lines keep identity semantics.
func (k LineKey) Equal(o LineKey) bool {
	if !k.Complete() || !o.Complete() {
		return false
	}
	return *k.ItemID == *o.ItemID && *k.PurchaseID == *o.PurchaseID
}

func (k LineKey) String() string {
	part := func(v *int) string {
		if v == nil {
			return "?"
		}
		return strconv.Itoa(*v)
	}
	return part(k.ItemID) + "/" + part(k.PurchaseID)
}

// PurchaseLine carries the relationship attributes of the N-N association
// between purchases and items: the quantity and the price frozen at purchase
// time, independent of the item's current price.
type PurchaseLine struct {
	Key             LineKey         `gorm:"embedded"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"column:unit_price_at_purchase;type:decimal(10,2)"`

	item     *Item
	purchase *Purchase
}

func (PurchaseLine) TableName() string { return "purchase_line" }

// NewPurchaseLine derives the key components that are already known. A line
// becomes persistable only once both parents carry generated ids; flushing
// the parent inserts first is the caller's responsibility.
func NewPurchaseLine(item *Item, purchase *Purchase, quantity int, price decimal.Decimal) *PurchaseLine {
	l := &PurchaseLine{Quantity: quantity, PriceAtPurchase: price}
	l.SetItem(item)
	l.SetPurchase(purchase)
	return l
}

func (l *PurchaseLine) Item() *Item { return l.item }

// SetItem recomputes the item component of the key from the new parent's
// current id, or clears it when the parent (or its id) is absent.
func (l *PurchaseLine) SetItem(item *Item) {
	l.item = item
	if item == nil || item.ID == 0 {
		l.Key.ItemID = nil
		return
	}
	id := item.ID
	l.Key.ItemID = &id
}

func (l *PurchaseLine) Purchase() *Purchase { return l.purchase }

// SetPurchase recomputes the purchase component of the key, mirroring SetItem.
func (l *PurchaseLine) SetPurchase(p *Purchase) {
	l.purchase = p
	if p == nil || p.ID == 0 {
		l.Key.PurchaseID = nil
		return
	}
	id := p.ID
	l.Key.PurchaseID = &id
}

func (l *PurchaseLine) Persistable() bool { return l.Key.Complete() }

// Equal degrades to pointer identity while either key is incomplete, so two
// unsaved lines are never equal even when their data matches.
func (l *PurchaseLine) Equal(o *PurchaseLine) bool {
	if l == o {
		return true
	}
	if o == nil {
		return false
	}
	return l.Key.Equal(o.Key)
}
