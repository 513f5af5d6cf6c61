package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findProductByBarcode = `-- name: FindProductByBarcode :one
SELECT id, barcode, name, description, price, shop_name, created_at, updated_at
FROM products
WHERE barcode = $1
`

func (q *Queries) FindProductByBarcode(c context.Context, barcode string) (Product, error) {
	row := q.db.QueryRow(c, findProductByBarcode, barcode)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Barcode,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ShopName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (id, barcode, name, description, price, shop_name)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, barcode, name, description, price, shop_name, created_at, updated_at
`

type InsertProductParams struct {
	ID          uuid.UUID
	Barcode     string
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ShopName    string
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(c, insertProduct,
		arg.ID,
		arg.Barcode,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ShopName,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Barcode,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ShopName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
