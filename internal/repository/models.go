package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID          uuid.UUID
	Barcode     string
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ShopName    string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type CartItem struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       pgtype.Numeric
	Quantity    int32
	ShopName    string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Bookmark struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	CreatedAt pgtype.Timestamptz
}

type Receipt struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ShopName  string
	TotalSum  pgtype.Numeric
	CreatedAt pgtype.Timestamptz
}

type ReceiptItem struct {
	ID          uuid.UUID
	ReceiptID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	Price       pgtype.Numeric
}

type User struct {
	ID                  uuid.UUID
	Email               string
	FirstName           string
	LastName            string
	Password            string
	NumSuccessfulLogins int32
	NumFailedPasswords  int32
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

type UserPassword struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Password  string
	CreatedAt pgtype.Timestamptz
}
