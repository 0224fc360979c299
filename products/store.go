package products

import (
	"context"
	"database/sql"
	"errors"
)

const (
	selectCategory    = "SELECT id, ref_id, name, created_at, updated_at FROM categories"
	selectOperator    = "SELECT id, ref_id, category_id, name, slug, image_url, description, created_at, updated_at FROM operators"
	selectProductType = "SELECT id, ref_id, operator_id, name, format_form, created_at, updated_at FROM product_types"
	selectProduct     = "SELECT id, ref_id, product_type_id, name, description, image_url, price, created_at, updated_at FROM products"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	err := row.Scan(&c.Id, &c.RefId, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanOperator(row rowScanner) (Operator, error) {
	var o Operator
	err := row.Scan(&o.Id, &o.RefId, &o.CategoryId, &o.Name, &o.Slug, &o.ImageUrl, &o.Description, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanProductType(row rowScanner) (ProductType, error) {
	var pt ProductType
	err := row.Scan(&pt.Id, &pt.RefId, &pt.OperatorId, &pt.Name, &pt.FormatForm, &pt.CreatedAt, &pt.UpdatedAt)
	return pt, err
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.Id, &p.RefId, &p.ProductTypeId, &p.Name, &p.Description, &p.ImageUrl, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func queryOne[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

func queryList[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// exists reports whether table has a row with the given id. table is always
// one of the package's own table names.
func exists(ctx context.Context, db *sql.DB, table string, id int) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
