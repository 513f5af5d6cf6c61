package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanmart/scanmart/cart/pkg/request"
	"github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/repository"
)

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	item := request.AddCartItem{
		ProductId:   uuid.New(),
		ProductName: "Choco Pie",
		Price:       price("1.50"),
		ShopName:    "GS25",
	}

	first, err := svc.AddItem(c, userId, item)
	require.NoError(t, err)
	assert.Equal(t, int32(1), first.Quantity)

	second, err := svc.AddItem(c, userId, item)
	require.NoError(t, err)
	assert.Equal(t, int32(2), second.Quantity)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Total.Equal(decimal.RequireFromString("3.00")))

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, int32(2), cart[0].Quantity)
}

func TestConcurrentAddsNeverLoseAnIncrement(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	item := request.AddCartItem{
		ProductId:   uuid.New(),
		ProductName: "Choco Pie",
		Price:       price("1.50"),
		ShopName:    "GS25",
	}

	const adds = 16
	errs := make(chan error, adds)
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(c, userId, item)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, int32(adds), cart[0].Quantity)
}

func TestAddItemFromAnotherShopIsRejected(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	_, err := svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   uuid.New(),
		ProductName: "Banana Milk",
		Price:       price("1.20"),
		ShopName:    "GS25",
	})
	require.NoError(t, err)

	_, err = svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   uuid.New(),
		ProductName: "Onigiri",
		Price:       price("2.00"),
		ShopName:    "CU",
	})
	assert.ErrorIs(t, err, errors.ErrShopMismatch)

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "Banana Milk", cart[0].ProductName)
}

func TestListCartKeepsInsertionOrder(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	names := []string{"Banana Milk", "Onigiri", "Choco Pie"}
	productIds := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		productId := uuid.New()
		productIds = append(productIds, productId)
		_, err := svc.AddItem(c, userId, request.AddCartItem{
			ProductId:   productId,
			ProductName: name,
			Price:       price("1.00"),
			ShopName:    "GS25",
		})
		require.NoError(t, err)
	}

	// bumping the first item must not move it to the back
	_, err := svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   productIds[0],
		ProductName: names[0],
		Price:       price("1.00"),
		ShopName:    "GS25",
	})
	require.NoError(t, err)

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart, 3)
	for i, name := range names {
		assert.Equal(t, name, cart[i].ProductName)
	}
	assert.Equal(t, int32(2), cart[0].Quantity)
}

func TestListCartFlagsBookmarkedItems(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	bookmarkedId := uuid.New()
	plainId := uuid.New()
	for _, item := range []request.AddCartItem{
		{ProductId: bookmarkedId, ProductName: "Banana Milk", Price: price("1.20"), ShopName: "GS25"},
		{ProductId: plainId, ProductName: "Onigiri", Price: price("2.00"), ShopName: "GS25"},
	} {
		_, err := svc.AddItem(c, userId, item)
		require.NoError(t, err)
	}

	_, err := queries.InsertBookmark(c, repository.InsertBookmarkParams{
		UserID:    userId,
		ProductID: bookmarkedId,
	})
	require.NoError(t, err)

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.True(t, cart[0].Bookmarked)
	assert.False(t, cart[1].Bookmarked)
}

func TestUpdateQuantity(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	productId := uuid.New()
	_, err := svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   productId,
		ProductName: "Choco Pie",
		Price:       price("1.50"),
		ShopName:    "CU",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(c, userId, productId, request.UpdateQuantity{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(5), updated.Quantity)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("7.50")))

	_, err = svc.UpdateQuantity(c, userId, productId, request.UpdateQuantity{Quantity: 0})
	assert.ErrorIs(t, err, errors.ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(c, userId, uuid.New(), request.UpdateQuantity{Quantity: 2})
	assert.ErrorIs(t, err, errors.ErrCartItemNotFound)
}

func TestRemoveItemAndClear(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	productId := uuid.New()
	_, err := svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   productId,
		ProductName: "Banana Milk",
		Price:       price("1.20"),
		ShopName:    "GS25",
	})
	require.NoError(t, err)

	removed, err := svc.RemoveItem(c, userId, productId)
	require.NoError(t, err)
	assert.Equal(t, productId, removed.ProductID)

	_, err = svc.RemoveItem(c, userId, productId)
	assert.ErrorIs(t, err, errors.ErrCartItemNotFound)

	// clearing an empty cart is not an error
	deleted, err := svc.Clear(c, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	_, err = svc.AddItem(c, userId, request.AddCartItem{
		ProductId:   uuid.New(),
		ProductName: "Onigiri",
		Price:       price("2.00"),
		ShopName:    "CU",
	})
	require.NoError(t, err)

	deleted, err = svc.Clear(c, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	cart, err := svc.ListCart(c, userId)
	require.NoError(t, err)
	assert.Empty(t, cart)
}
