package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListBeans(ctx context.Context) ([]*Bean, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, brand, flavor, supplier_id, production_date
		FROM coffee_beans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beans := []*Bean{}
	for rows.Next() {
		b := &Bean{}
		var supplierID sql.NullInt64
		var produced sql.NullTime
		if err := rows.Scan(&b.ID, &b.Type, &b.Brand, &b.Flavor, &supplierID, &produced); err != nil {
			return nil, err
		}
		if supplierID.Valid {
			b.SupplierID = &supplierID.Int64
		}
		if produced.Valid {
			b.ProductionDate = &produced.Time
		}
		beans = append(beans, b)
	}
	return beans, rows.Err()
}

func (r *postgresRepo) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, contact FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []*Supplier{}
	for rows.Next() {
		s := &Supplier{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	products := []*Product{}
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			rows.Close()
			return nil, err
		}
		products = append(products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.Recipe, err = r.recipe(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUnknownProduct
	}
	if err != nil {
		return nil, err
	}
	if p.Recipe, err = r.recipe(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) recipe(ctx context.Context, productID int64) ([]RecipeLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pb.bean_id, cb.type, cb.brand, pb.amount_required
		FROM product_bean_usage pb
		JOIN coffee_beans cb ON cb.id = pb.bean_id
		WHERE pb.product_id=$1
		ORDER BY pb.bean_id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []RecipeLine{}
	for rows.Next() {
		var l RecipeLine
		if err := rows.Scan(&l.BeanID, &l.BeanType, &l.BeanBrand, &l.AmountRequired); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
