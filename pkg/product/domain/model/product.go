package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// Variant is one purchasable sub-option of a product (a flavor). Variants
// are persisted as their own rows, ordered by Position, so an in-place
// stock edit is always visible to the mapper.
type Variant struct {
	Name          string
	Active        bool
	StockQuantity int
	Position      int
}

type Product struct {
	ID            uuid.UUID
	Name          string
	StockQuantity int
	FlavorEnabled bool
	// FlavorStockMode marks the aggregate stock as derived: it is kept
	// equal to the sum of active variants' stock.
	FlavorStockMode bool
	Variants        []Variant
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Variant returns the catalog entry with the given name, or nil.
func (p *Product) Variant(name string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) ActiveVariantStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.Active {
			total += v.StockQuantity
		}
	}
	return total
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(product *Product) error
	Update(product *Product) error
	Find(id uuid.UUID) (*Product, error)
}
