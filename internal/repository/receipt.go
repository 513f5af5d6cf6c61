package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertReceipt = `-- name: InsertReceipt :one
INSERT INTO receipts (id, user_id, shop_name, total_sum)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, shop_name, total_sum, created_at
`

type InsertReceiptParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	ShopName string
	TotalSum pgtype.Numeric
}

func (q *Queries) InsertReceipt(c context.Context, arg InsertReceiptParams) (Receipt, error) {
	row := q.db.QueryRow(c, insertReceipt, arg.ID, arg.UserID, arg.ShopName, arg.TotalSum)
	var i Receipt
	err := row.Scan(&i.ID, &i.UserID, &i.ShopName, &i.TotalSum, &i.CreatedAt)
	return i, err
}

type InsertReceiptItemsParams struct {
	ID          uuid.UUID
	ReceiptID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	Price       pgtype.Numeric
}

func (q *Queries) InsertReceiptItems(
	c context.Context,
	arg []InsertReceiptItemsParams,
) (int64, error) {
	return q.db.CopyFrom(
		c,
		pgx.Identifier{"receipt_items"},
		[]string{"id", "receipt_id", "product_id", "product_name", "quantity", "price"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]interface{}, error) {
			return []interface{}{
				arg[i].ID,
				arg[i].ReceiptID,
				arg[i].ProductID,
				arg[i].ProductName,
				arg[i].Quantity,
				arg[i].Price,
			}, nil
		}),
	)
}

const findReceiptById = `-- name: FindReceiptById :one
SELECT id, user_id, shop_name, total_sum, created_at
FROM receipts
WHERE id = $1
`

func (q *Queries) FindReceiptById(c context.Context, id uuid.UUID) (Receipt, error) {
	row := q.db.QueryRow(c, findReceiptById, id)
	var i Receipt
	err := row.Scan(&i.ID, &i.UserID, &i.ShopName, &i.TotalSum, &i.CreatedAt)
	return i, err
}

const findReceiptItemsByReceiptId = `-- name: FindReceiptItemsByReceiptId :many
SELECT id, receipt_id, product_id, product_name, quantity, price
FROM receipt_items
WHERE receipt_id = $1
`

func (q *Queries) FindReceiptItemsByReceiptId(
	c context.Context,
	receiptID uuid.UUID,
) ([]ReceiptItem, error) {
	rows, err := q.db.Query(c, findReceiptItemsByReceiptId, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReceiptItem{}
	for rows.Next() {
		var i ReceiptItem
		if err := rows.Scan(
			&i.ID,
			&i.ReceiptID,
			&i.ProductID,
			&i.ProductName,
			&i.Quantity,
			&i.Price,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findReceiptsByUserId = `-- name: FindReceiptsByUserId :many
SELECT r.id, r.user_id, r.shop_name, r.total_sum, r.created_at,
       COALESCE(
           json_agg(
               json_build_object(
                   'id', ri.id,
                   'receipt_id', ri.receipt_id,
                   'product_id', ri.product_id,
                   'product_name', ri.product_name,
                   'quantity', ri.quantity,
                   'price', ri.price
               )
           ) FILTER (WHERE ri.id IS NOT NULL),
           '[]'
       ) AS receipt_items
FROM receipts r
LEFT JOIN receipt_items ri ON r.id = ri.receipt_id
WHERE r.user_id = $1
GROUP BY r.id
ORDER BY r.created_at DESC
`

type FindReceiptsByUserIdRow struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ShopName     string
	TotalSum     pgtype.Numeric
	CreatedAt    pgtype.Timestamptz
	ReceiptItems []byte
}

func (q *Queries) FindReceiptsByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindReceiptsByUserIdRow, error) {
	rows, err := q.db.Query(c, findReceiptsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindReceiptsByUserIdRow{}
	for rows.Next() {
		var i FindReceiptsByUserIdRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ShopName,
			&i.TotalSum,
			&i.CreatedAt,
			&i.ReceiptItems,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteReceiptItemsByReceiptId = `-- name: DeleteReceiptItemsByReceiptId :execrows
DELETE FROM receipt_items
WHERE receipt_id = $1
`

func (q *Queries) DeleteReceiptItemsByReceiptId(
	c context.Context,
	receiptID uuid.UUID,
) (int64, error) {
	result, err := q.db.Exec(c, deleteReceiptItemsByReceiptId, receiptID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteReceiptById = `-- name: DeleteReceiptById :execrows
DELETE FROM receipts
WHERE id = $1
`

func (q *Queries) DeleteReceiptById(c context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(c, deleteReceiptById, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
