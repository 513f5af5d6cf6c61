package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutSession struct {
	Cart []CartLine `validate:"required,min=1,dive" json:"cart"`
}

type CartLine struct {
	ProductId   uuid.UUID       `validate:"required"       json:"product_id"`
	ProductName string          `validate:"required"       json:"product_name"`
	Price       decimal.Decimal `validate:"required"       json:"price"`
	Quantity    int32           `validate:"required,gte=1" json:"quantity"`
}
