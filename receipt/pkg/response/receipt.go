package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID           uuid.UUID       `json:"receipt_id"`
	UserID       uuid.UUID       `json:"user_id"`
	ShopName     string          `json:"shop_name"`
	TotalSum     decimal.Decimal `json:"total_sum"`
	CreatedAt    time.Time       `json:"purchase_date"`
	ReceiptItems []ReceiptItem   `json:"items"`
}

type ReceiptItem struct {
	ID          uuid.UUID       `json:"id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}
