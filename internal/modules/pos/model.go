package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is one completed sale in a store's history.
type Purchase struct {
	ID          uuid.UUID       `json:"purchase_id"`
	StoreID     int64           `json:"store_id"`
	Time        time.Time       `json:"time"`
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	BeanType    string          `json:"type"`
	BeanBrand   string          `json:"brand"`
}

// MaxQuantity caps the units a single purchase may sell.
const MaxQuantity = 10000

// FulfillRequest is the payload for selling a product.
type FulfillRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=10000"`
}

// Deduction is the total amount of one bean a purchase consumes.
type Deduction struct {
	BeanID int64
	Amount int
}
