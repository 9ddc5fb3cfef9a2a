package domain

import (
	"github.com/shopspring/decimal"
)

// Item is a catalog entry with a generated surrogate id. Once referenced by
// a purchase line an item is never hard-deleted; "deletion" blanks its
// fields so the row and its lines keep their referential integrity.
type Item struct {
	ID          int             `gorm:"primaryKey"`
	Name        string          `gorm:"size:180"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"column:current_price;type:decimal(10,2)"`
	Stock       int

	lines []*PurchaseLine
}

func (Item) TableName() string { return "item" }

func NewItem(name, description string, price decimal.Decimal, stock int) *Item {
	return &Item{Name: name, Description: description, Price: price, Stock: stock}
}

func (it *Item) Lines() []*PurchaseLine { return it.lines }

func (it *Item) AddLine(l *PurchaseLine) {
	for _, have := range it.lines {
		if have == l {
			return
		}
	}
	it.lines = append(it.lines, l)
	l.SetItem(it)
}

// RemoveLine is a no-op when l is not linked.
func (it *Item) RemoveLine(l *PurchaseLine) {
	for i, have := range it.lines {
		if have == l {
			it.lines = append(it.lines[:i], it.lines[i+1:]...)
			l.SetItem(nil)
			return
		}
	}
}
