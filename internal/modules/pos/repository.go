package pos

import (
	"context"

	"github.com/georgemunganga/coffee-tracker/internal/modules/inventory"
)

// Repository defines data access for purchases.
type Repository interface {
	// RecordFulfillment applies every deduction and inserts p atomically.
	// It returns the remaining level of each deducted row.
	RecordFulfillment(ctx context.Context, p *Purchase, deductions []Deduction) ([]inventory.Level, error)
	ListByStore(ctx context.Context, storeID int64) ([]*Purchase, error)
}
