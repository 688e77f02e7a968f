package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is the strict, normalised shape of a backend menu record.
type MenuItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	IsVeg     bool            `json:"veg"`
	Category  string          `json:"category"`
}

// Catalog is one complete snapshot of the menu. It is replaced wholesale on
// every successful load and never mutated in place.
type Catalog struct {
	Items      []MenuItem `json:"items"`
	Categories []string   `json:"categories"`
	LoadedAt   time.Time  `json:"loaded_at"`
}

// Find returns the item with the given id, if present.
func (c *Catalog) Find(id string) (MenuItem, bool) {
	if c == nil {
		return MenuItem{}, false
	}
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}
