package errors

import (
	"errors"
	"net/http"
)

var (
	ErrMissingUserID = errors.New("missing userId in request")

	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("product not found in cart")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrShopMismatch      = errors.New("cart is associated with another shop, clear the cart before adding products from a different shop")
	ErrAlreadyBookmarked = errors.New("product is already bookmarked")
	ErrEmailTaken        = errors.New("email has already been used")
	ErrPasswordReused    = errors.New("password has been used before")
	ErrPasswordSame      = errors.New("new password identical to old password")

	ErrEmptyCart              = errors.New("cart is empty")
	ErrTotalMismatch          = errors.New("cart total mismatch, please refresh your cart")
	ErrCheckoutNotAuthorized  = errors.New("checkout has no successful payment authorization")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrPasswordMissingClasses = errors.New("password doesn't contain letters and/or numbers")
	ErrInvalidName            = errors.New("name must be 2-20 characters of letters, spaces, hyphens or apostrophes")
	ErrPasswordMismatch       = errors.New("incorrect password for given email")
	ErrOldPasswordMismatch    = errors.New("incorrect old password")

	ErrEmptyAuth    = errors.New("missing authorization")
	ErrTokenInvalid = errors.New("invalid token")
)

// StatusCode classifies an error chain into the HTTP status the API
// contract promises: 404 for absent resources, 409 for duplicate
// bookmarks, 401 for auth failures, 400 for everything rejected before
// mutation, 500 otherwise.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrBookmarkNotFound),
		errors.Is(err, ErrReceiptNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyBookmarked):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyAuth), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMissingUserID),
		errors.Is(err, ErrShopMismatch),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrPasswordReused),
		errors.Is(err, ErrPasswordSame),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrTotalMismatch),
		errors.Is(err, ErrCheckoutNotAuthorized),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordMissingClasses),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrOldPasswordMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
