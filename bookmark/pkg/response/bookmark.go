package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Bookmark struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}
