package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartShopByUserId = `-- name: FindCartShopByUserId :one
SELECT DISTINCT shop_name
FROM cart_items
WHERE user_id = $1
`

func (q *Queries) FindCartShopByUserId(c context.Context, userID uuid.UUID) (string, error) {
	row := q.db.QueryRow(c, findCartShopByUserId, userID)
	var shopName string
	err := row.Scan(&shopName)
	return shopName, err
}

const upsertCartItem = `-- name: UpsertCartItem :one
INSERT INTO cart_items (id, user_id, product_id, product_name, price, quantity, shop_name)
VALUES ($1, $2, $3, $4, $5, 1, $6)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = now()
RETURNING id, user_id, product_id, product_name, price, quantity, shop_name, created_at, updated_at
`

type UpsertCartItemParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       pgtype.Numeric
	ShopName    string
}

func (q *Queries) UpsertCartItem(c context.Context, arg UpsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(c, upsertCartItem,
		arg.ID,
		arg.UserID,
		arg.ProductID,
		arg.ProductName,
		arg.Price,
		arg.ShopName,
	)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.ProductName,
		&i.Price,
		&i.Quantity,
		&i.ShopName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findCartItemsByUserId = `-- name: FindCartItemsByUserId :many
SELECT c.id, c.user_id, c.product_id, c.product_name, c.price, c.quantity, c.shop_name, c.created_at, c.updated_at,
       EXISTS (
           SELECT 1
           FROM bookmarks b
           WHERE b.product_id = c.product_id AND b.user_id = c.user_id
       ) AS bookmarked
FROM cart_items c
WHERE c.user_id = $1
ORDER BY c.created_at ASC
`

type FindCartItemsByUserIdRow struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       pgtype.Numeric
	Quantity    int32
	ShopName    string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
	Bookmarked  bool
}

func (q *Queries) FindCartItemsByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindCartItemsByUserIdRow, error) {
	rows, err := q.db.Query(c, findCartItemsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartItemsByUserIdRow{}
	for rows.Next() {
		var i FindCartItemsByUserIdRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ProductID,
			&i.ProductName,
			&i.Price,
			&i.Quantity,
			&i.ShopName,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.Bookmarked,
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

const findCartItemsByUserIdForUpdate = `-- name: FindCartItemsByUserIdForUpdate :many
SELECT id, user_id, product_id, product_name, price, quantity, shop_name, created_at, updated_at
FROM cart_items
WHERE user_id = $1
ORDER BY created_at ASC
FOR UPDATE
`

func (q *Queries) FindCartItemsByUserIdForUpdate(
	c context.Context,
	userID uuid.UUID,
) ([]CartItem, error) {
	rows, err := q.db.Query(c, findCartItemsByUserIdForUpdate, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ProductID,
			&i.ProductName,
			&i.Price,
			&i.Quantity,
			&i.ShopName,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items
SET quantity = $3, updated_at = now()
WHERE user_id = $1 AND product_id = $2
RETURNING id, user_id, product_id, product_name, price, quantity, shop_name, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

func (q *Queries) UpdateCartItemQuantity(
	c context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, updateCartItemQuantity, arg.UserID, arg.ProductID, arg.Quantity)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.ProductName,
		&i.Price,
		&i.Quantity,
		&i.ShopName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartItem = `-- name: DeleteCartItem :one
DELETE FROM cart_items
WHERE user_id = $1 AND product_id = $2
RETURNING id, user_id, product_id, product_name, price, quantity, shop_name, created_at, updated_at
`

type DeleteCartItemParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) DeleteCartItem(c context.Context, arg DeleteCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(c, deleteCartItem, arg.UserID, arg.ProductID)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.ProductName,
		&i.Price,
		&i.Quantity,
		&i.ShopName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartByUserId = `-- name: DeleteCartByUserId :execrows
DELETE FROM cart_items
WHERE user_id = $1
`

func (q *Queries) DeleteCartByUserId(c context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.Exec(c, deleteCartByUserId, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const sumCartTotalByUserId = `-- name: SumCartTotalByUserId :one
SELECT COALESCE(SUM(price * quantity), 0)::numeric AS total_sum
FROM cart_items
WHERE user_id = $1
`

func (q *Queries) SumCartTotalByUserId(
	c context.Context,
	userID uuid.UUID,
) (pgtype.Numeric, error) {
	row := q.db.QueryRow(c, sumCartTotalByUserId, userID)
	var totalSum pgtype.Numeric
	err := row.Scan(&totalSum)
	return totalSum, err
}
