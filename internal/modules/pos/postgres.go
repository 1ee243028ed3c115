package pos

import (
	"context"
	"database/sql"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/inventory"
	"github.com/georgemunganga/coffee-tracker/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) RecordFulfillment(ctx context.Context, p *Purchase, deductions []Deduction) ([]inventory.Level, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	levels := make([]inventory.Level, 0, len(deductions))
	for _, d := range deductions {
		level, err := inventory.DeductTx(ctx, tx, p.StoreID, d.BeanID, d.Amount)
		if err != nil {
			return nil, err
		}
		levels = append(levels, *level)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO purchase_history
		  (id, store_id, product_name, quantity, price, bean_type, bean_brand)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING purchased_at`,
		p.ID, p.StoreID, p.ProductName, p.Quantity, p.Price, p.BeanType, p.BeanBrand).
		Scan(&p.Time)
	if database.HasCode(err, database.NumericOutOfRange) {
		return nil, apperr.Invalid("purchase of %d %s is out of range", p.Quantity, p.ProductName)
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID int64) ([]*Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, purchased_at, product_name, quantity, price, bean_type, bean_brand
		FROM purchase_history WHERE store_id=$1 ORDER BY purchased_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := []*Purchase{}
	for rows.Next() {
		p := &Purchase{}
		err := rows.Scan(&p.ID, &p.StoreID, &p.Time, &p.ProductName, &p.Quantity,
			&p.Price, &p.BeanType, &p.BeanBrand)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
