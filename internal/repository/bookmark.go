package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertBookmark = `-- name: InsertBookmark :one
INSERT INTO bookmarks (user_id, product_id)
VALUES ($1, $2)
RETURNING user_id, product_id, created_at
`

type InsertBookmarkParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) InsertBookmark(c context.Context, arg InsertBookmarkParams) (Bookmark, error) {
	row := q.db.QueryRow(c, insertBookmark, arg.UserID, arg.ProductID)
	var i Bookmark
	err := row.Scan(&i.UserID, &i.ProductID, &i.CreatedAt)
	return i, err
}

const deleteBookmark = `-- name: DeleteBookmark :execrows
DELETE FROM bookmarks
WHERE user_id = $1 AND product_id = $2
`

type DeleteBookmarkParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) DeleteBookmark(c context.Context, arg DeleteBookmarkParams) (int64, error) {
	result, err := q.db.Exec(c, deleteBookmark, arg.UserID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findBookmarksByUserId = `-- name: FindBookmarksByUserId :many
SELECT b.product_id, p.name AS product_name, p.price
FROM bookmarks b
LEFT JOIN products p ON b.product_id = p.id
WHERE b.user_id = $1
ORDER BY b.created_at ASC
`

type FindBookmarksByUserIdRow struct {
	ProductID   uuid.UUID
	ProductName pgtype.Text
	Price       pgtype.Numeric
}

func (q *Queries) FindBookmarksByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindBookmarksByUserIdRow, error) {
	rows, err := q.db.Query(c, findBookmarksByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindBookmarksByUserIdRow{}
	for rows.Next() {
		var i FindBookmarksByUserIdRow
		if err := rows.Scan(&i.ProductID, &i.ProductName, &i.Price); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
