package inventory

import (
	"time"
)

// Item is one store's stock of one bean.
type Item struct {
	StoreID        int64      `json:"store_id"`
	BeanID         int64      `json:"bean_id"`
	BeanType       string     `json:"type,omitempty"`
	BeanBrand      string     `json:"brand,omitempty"`
	Flavor         string     `json:"flavor,omitempty"`
	Amount         int        `json:"amount"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expired reports whether the row's beans are past their expiration date at now.
func (i *Item) Expired(now time.Time) bool {
	return i.ExpirationDate != nil && i.ExpirationDate.Before(now)
}

// Level is the amount left on a row after a deduction.
type Level struct {
	StoreID int64 `json:"store_id"`
	BeanID  int64 `json:"bean_id"`
	Amount  int   `json:"amount"`
}

// RestockRequest holds data for adding beans to a store.
type RestockRequest struct {
	BeanID         int64
	Amount         int
	ExpirationDate *time.Time
}

// DeductRequest holds data for removing beans outside of a purchase.
type DeductRequest struct {
	BeanID int64 `json:"bean_id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"required,gt=0"`
}
