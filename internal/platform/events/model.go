package events

import (
	"strconv"
	"time"
)

// PurchaseCompleted is emitted once a purchase has been committed.
type PurchaseCompleted struct {
	PurchaseID  string    `json:"purchase_id"`
	StoreID     int64     `json:"store_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       string    `json:"price"`
	Time        time.Time `json:"time"`
}

// StockLevel is emitted for low-stock and expiring inventory rows.
type StockLevel struct {
	StoreID        int64      `json:"store_id"`
	BeanID         int64      `json:"bean_id"`
	Amount         int        `json:"amount"`
	Threshold      int        `json:"threshold,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// StoreKey partitions events by store.
func StoreKey(storeID int64) string { return strconv.FormatInt(storeID, 10) }
