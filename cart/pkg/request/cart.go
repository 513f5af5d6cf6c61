package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price is a pointer so `required` means the field was present; a
// zero price is a legal value, only an absent one is rejected.
type AddCartItem struct {
	ProductId   uuid.UUID        `validate:"required"       json:"product_id"`
	ProductName string           `validate:"required"       json:"product_name"`
	Price       *decimal.Decimal `validate:"required"       json:"price"`
	ShopName    string           `validate:"required"       json:"shop_name"`
}

type UpdateQuantity struct {
	Quantity int32 `validate:"required,gte=1" json:"quantity"`
}
