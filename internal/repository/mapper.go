package repository

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	bookmarkResponse "github.com/scanmart/scanmart/bookmark/pkg/response"
	cartResponse "github.com/scanmart/scanmart/cart/pkg/response"
	productResponse "github.com/scanmart/scanmart/product/pkg/response"
	receiptResponse "github.com/scanmart/scanmart/receipt/pkg/response"
	userResponse "github.com/scanmart/scanmart/user/pkg/response"
)

func (p Product) Response() productResponse.Product {
	return productResponse.Product{
		ID:          p.ID,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description.String,
		Price:       decimal.NewFromBigInt(p.Price.Int, p.Price.Exp),
		ShopName:    p.ShopName,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (i CartItem) Response() cartResponse.CartItem {
	price := decimal.NewFromBigInt(i.Price.Int, i.Price.Exp)
	return cartResponse.CartItem{
		ID:          i.ID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Price:       price,
		Quantity:    i.Quantity,
		ShopName:    i.ShopName,
		Total:       price.Mul(decimal.NewFromInt32(i.Quantity)),
		CreatedAt:   i.CreatedAt.Time,
		UpdatedAt:   i.UpdatedAt.Time,
	}
}

func (r FindCartItemsByUserIdRow) Response() cartResponse.CartItem {
	price := decimal.NewFromBigInt(r.Price.Int, r.Price.Exp)
	return cartResponse.CartItem{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Price:       price,
		Quantity:    r.Quantity,
		ShopName:    r.ShopName,
		Bookmarked:  r.Bookmarked,
		Total:       price.Mul(decimal.NewFromInt32(r.Quantity)),
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

func (b FindBookmarksByUserIdRow) Response() bookmarkResponse.Bookmark {
	return bookmarkResponse.Bookmark{
		ProductID:   b.ProductID,
		ProductName: b.ProductName.String,
		Price:       decimal.NewFromBigInt(b.Price.Int, b.Price.Exp),
	}
}

func (r Receipt) Response() receiptResponse.Receipt {
	return receiptResponse.Receipt{
		ID:        r.ID,
		UserID:    r.UserID,
		ShopName:  r.ShopName,
		TotalSum:  decimal.NewFromBigInt(r.TotalSum.Int, r.TotalSum.Exp),
		CreatedAt: r.CreatedAt.Time,
	}
}

func (i ReceiptItem) Response() receiptResponse.ReceiptItem {
	return receiptResponse.ReceiptItem{
		ID:          i.ID,
		ReceiptID:   i.ReceiptID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       decimal.NewFromBigInt(i.Price.Int, i.Price.Exp),
	}
}

func (r FindReceiptsByUserIdRow) Response() (receiptResponse.Receipt, error) {
	receiptItems := []receiptResponse.ReceiptItem{}
	err := json.Unmarshal(r.ReceiptItems, &receiptItems)
	if err != nil {
		return receiptResponse.Receipt{}, err
	}
	return receiptResponse.Receipt{
		ID:           r.ID,
		UserID:       r.UserID,
		ShopName:     r.ShopName,
		TotalSum:     decimal.NewFromBigInt(r.TotalSum.Int, r.TotalSum.Exp),
		CreatedAt:    r.CreatedAt.Time,
		ReceiptItems: receiptItems,
	}, nil
}

func (u User) Response() userResponse.User {
	return userResponse.User{
		UserID:                           u.ID,
		Name:                             u.FirstName + " " + u.LastName,
		Email:                            u.Email,
		NumSuccessfulLogins:              u.NumSuccessfulLogins,
		NumFailedPasswordsSinceLastLogin: u.NumFailedPasswords,
	}
}
