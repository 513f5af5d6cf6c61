package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{ErrProductNotFound, http.StatusNotFound},
		{ErrCartItemNotFound, http.StatusNotFound},
		{ErrReceiptNotFound, http.StatusNotFound},
		{ErrAlreadyBookmarked, http.StatusConflict},
		{ErrEmptyAuth, http.StatusUnauthorized},
		{ErrTokenInvalid, http.StatusUnauthorized},
		{ErrShopMismatch, http.StatusBadRequest},
		{ErrTotalMismatch, http.StatusBadRequest},
		{ErrCheckoutNotAuthorized, http.StatusBadRequest},
		{ErrPasswordReused, http.StatusBadRequest},
		{fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestStatusCodeUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("failed adding cart item with error=%w", ErrShopMismatch)
	assert.Equal(t, http.StatusBadRequest, StatusCode(wrapped))

	doubleWrapped := fmt.Errorf("handler: %w", wrapped)
	assert.Equal(t, http.StatusBadRequest, StatusCode(doubleWrapped))
}
