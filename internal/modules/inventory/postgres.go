package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/platform/database"
)

const itemColumns = `i.store_id, i.bean_id, cb.type, cb.brand, cb.flavor, i.amount, i.expiration_date, i.updated_at`

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Upsert is a single statement, so concurrent restocks of the same row
// neither duplicate it nor lose an increment.
func (r *postgresRepo) Upsert(ctx context.Context, storeID, beanID int64, amount int, expiration *time.Time) (*Item, error) {
	var exp sql.NullTime
	if expiration != nil {
		exp = sql.NullTime{Time: *expiration, Valid: true}
	}

	item := &Item{StoreID: storeID, BeanID: beanID}
	var stored sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO inventory (store_id, bean_id, amount, expiration_date)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (store_id, bean_id) DO UPDATE
		SET amount = inventory.amount + EXCLUDED.amount,
		    expiration_date = COALESCE(EXCLUDED.expiration_date, inventory.expiration_date),
		    updated_at = NOW()
		RETURNING amount, expiration_date, updated_at`,
		storeID, beanID, amount, exp).
		Scan(&item.Amount, &stored, &item.UpdatedAt)
	switch {
	case database.HasCode(err, database.ForeignKeyViolation):
		if strings.Contains(database.Constraint(err), "store") {
			return nil, fmt.Errorf("%w: store %d", apperr.ErrUnknownStore, storeID)
		}
		return nil, fmt.Errorf("%w: %d", apperr.ErrUnknownBean, beanID)
	case database.HasCode(err, database.UniqueViolation):
		return nil, fmt.Errorf("%w: store %d bean %d", apperr.ErrDuplicateInventoryRow, storeID, beanID)
	case database.HasCode(err, database.NumericOutOfRange):
		return nil, apperr.Invalid("amount %d would overflow stock of bean %d", amount, beanID)
	case err != nil:
		return nil, err
	}
	if stored.Valid {
		item.ExpirationDate = &stored.Time
	}
	return item, nil
}

func (r *postgresRepo) Deduct(ctx context.Context, storeID, beanID int64, amount int) (*Level, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	level, err := DeductTx(ctx, tx, storeID, beanID, amount)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return level, nil
}

// DeductTx locks the (store, bean) row and subtracts amount inside tx.
// On a shortfall the row is left untouched and an *apperr.InsufficientStockError
// is returned; the caller decides whether to roll back.
func DeductTx(ctx context.Context, tx *sql.Tx, storeID, beanID int64, amount int) (*Level, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT amount FROM inventory
		WHERE store_id=$1 AND bean_id=$2
		FOR UPDATE`, storeID, beanID)
	if err != nil {
		return nil, err
	}
	var amounts []int
	for rows.Next() {
		var a int
		if err := rows.Scan(&a); err != nil {
			rows.Close()
			return nil, err
		}
		amounts = append(amounts, a)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	switch {
	case len(amounts) > 1:
		return nil, fmt.Errorf("%w: store %d bean %d has %d rows",
			apperr.ErrDuplicateInventoryRow, storeID, beanID, len(amounts))
	case len(amounts) == 0:
		return nil, &apperr.InsufficientStockError{BeanID: beanID, Required: amount}
	case amounts[0] < amount:
		return nil, &apperr.InsufficientStockError{BeanID: beanID, Required: amount, Available: amounts[0]}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory SET amount = amount - $1, updated_at = NOW()
		WHERE store_id=$2 AND bean_id=$3`, amount, storeID, beanID)
	if database.HasCode(err, database.CheckViolation) {
		return nil, &apperr.InsufficientStockError{BeanID: beanID, Required: amount, Available: amounts[0]}
	}
	if database.HasCode(err, database.NumericOutOfRange) {
		return nil, apperr.Invalid("amount %d is out of range for bean %d", amount, beanID)
	}
	if err != nil {
		return nil, err
	}
	return &Level{StoreID: storeID, BeanID: beanID, Amount: amounts[0] - amount}, nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID int64) ([]*Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+`
		FROM inventory i
		JOIN coffee_beans cb ON cb.id = i.bean_id
		WHERE i.store_id=$1
		ORDER BY i.bean_id`, storeID)
}

func (r *postgresRepo) ListBelow(ctx context.Context, storeID int64, threshold int) ([]*Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+`
		FROM inventory i
		JOIN coffee_beans cb ON cb.id = i.bean_id
		WHERE i.store_id=$1 AND i.amount < $2
		ORDER BY i.amount, i.bean_id`, storeID, threshold)
}

func (r *postgresRepo) ListExpiring(ctx context.Context, before time.Time) ([]*Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+`
		FROM inventory i
		JOIN coffee_beans cb ON cb.id = i.bean_id
		WHERE i.expiration_date IS NOT NULL AND i.expiration_date < $1 AND i.amount > 0
		ORDER BY i.expiration_date, i.store_id, i.bean_id`, before)
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(scan func(...interface{}) error) (*Item, error) {
	item := &Item{}
	var exp sql.NullTime
	err := scan(&item.StoreID, &item.BeanID, &item.BeanType, &item.BeanBrand, &item.Flavor,
		&item.Amount, &exp, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if exp.Valid {
		item.ExpirationDate = &exp.Time
	}
	return item, nil
}
