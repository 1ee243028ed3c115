package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bean is a coffee bean in the shared reference catalog.
type Bean struct {
	ID             int64      `json:"bean_id"`
	Type           string     `json:"type"`
	Brand          string     `json:"brand"`
	Flavor         string     `json:"flavor,omitempty"`
	SupplierID     *int64     `json:"supplier_id,omitempty"`
	ProductionDate *time.Time `json:"production_date,omitempty"`
}

// Supplier sells beans to stores.
type Supplier struct {
	ID      int64  `json:"supplier_id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// RecipeLine is the amount of one bean a single unit of a product consumes.
type RecipeLine struct {
	BeanID         int64  `json:"bean_id"`
	BeanType       string `json:"bean_type"`
	BeanBrand      string `json:"bean_brand"`
	AmountRequired int    `json:"amount_required"`
}

// Product is something a store sells, with the beans it consumes.
type Product struct {
	ID     int64           `json:"product_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Recipe []RecipeLine    `json:"recipe"`
}

// PrimaryBean is the recipe line with the largest amount, lowest bean id on ties.
func (p *Product) PrimaryBean() (RecipeLine, bool) {
	if len(p.Recipe) == 0 {
		return RecipeLine{}, false
	}
	best := p.Recipe[0]
	for _, l := range p.Recipe[1:] {
		if l.AmountRequired > best.AmountRequired ||
			(l.AmountRequired == best.AmountRequired && l.BeanID < best.BeanID) {
			best = l
		}
	}
	return best, true
}
