package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/repository"
)

func setup(
	t *testing.T,
	c context.Context,
) (*pgxpool.Pool, *postgres.PostgresContainer, *repository.Queries, *ReceiptService) {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_PORT":     "5432",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "migrations", "20250114092818_create_table_cart_items.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250114093418_create_table_receipts.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250114093647_create_table_receipt_items.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	queries := repository.New(pool)
	receiptService := NewReceiptService(pool, queries)
	return pool, pgContainer, queries, receiptService
}

func teardown(t *testing.T, pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer) {
	t.Helper()

	pool.Close()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func fillCart(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	userId uuid.UUID,
	shopName string,
	lines map[string]struct {
		price    string
		quantity int32
	},
) {
	t.Helper()

	for name, line := range lines {
		price := decimal.RequireFromString(line.price)
		item, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
			ID:          uuid.New(),
			UserID:      userId,
			ProductID:   uuid.New(),
			ProductName: name,
			Price: pgtype.Numeric{
				InfinityModifier: pgtype.Finite,
				Int:              price.Coefficient(),
				Exp:              price.Exponent(),
				Valid:            true,
			},
			ShopName: shopName,
		})
		require.NoError(t, err)
		if line.quantity > 1 {
			_, err = queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
				UserID:    userId,
				ProductID: item.ProductID,
				Quantity:  line.quantity,
			})
			require.NoError(t, err)
		}
	}
}

func TestCheckoutConvertsCartToReceipt(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	fillCart(t, c, queries, userId, "CU", map[string]struct {
		price    string
		quantity int32
	}{
		"Choco Pie": {price: "3.00", quantity: 2},
		"Onigiri":   {price: "5.00", quantity: 1},
	})

	receipt, err := svc.Checkout(c, userId)
	require.NoError(t, err)
	assert.Equal(t, userId, receipt.UserID)
	assert.Equal(t, "CU", receipt.ShopName)
	assert.True(t, receipt.TotalSum.Equal(decimal.RequireFromString("11.00")),
		"expected total 11.00 got %s", receipt.TotalSum)
	require.Len(t, receipt.ReceiptItems, 2)

	itemSum := decimal.Zero
	for _, item := range receipt.ReceiptItems {
		itemSum = itemSum.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	assert.True(t, receipt.TotalSum.Equal(itemSum))

	// cart must be empty after checkout
	cartItems, err := queries.FindCartItemsByUserId(c, userId)
	require.NoError(t, err)
	assert.Empty(t, cartItems)
}

func TestCheckoutRollsBackWhenCommitFails(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	fillCart(t, c, queries, userId, "GS25", map[string]struct {
		price    string
		quantity int32
	}{
		"Banana Milk": {price: "1.20", quantity: 2},
		"Onigiri":     {price: "2.00", quantity: 1},
	})

	// make the receipt items insert fail after the receipt header insert
	// already succeeded inside the transaction
	_, err := pool.Exec(c, "ALTER TABLE receipt_items RENAME TO receipt_items_unavailable")
	require.NoError(t, err)

	_, err = svc.Checkout(c, userId)
	require.Error(t, err)

	// nothing committed: the cart is untouched and no receipt row exists
	cartItems, err := queries.FindCartItemsByUserId(c, userId)
	require.NoError(t, err)
	assert.Len(t, cartItems, 2)

	_, err = pool.Exec(c, "ALTER TABLE receipt_items_unavailable RENAME TO receipt_items")
	require.NoError(t, err)

	receipts, err := queries.FindReceiptsByUserId(c, userId)
	require.NoError(t, err)
	assert.Empty(t, receipts)

	// once the table is back, the same cart checks out cleanly
	receipt, err := svc.Checkout(c, userId)
	require.NoError(t, err)
	assert.True(t, receipt.TotalSum.Equal(decimal.RequireFromString("4.40")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	_, err := svc.Checkout(c, userId)
	assert.ErrorIs(t, err, errors.ErrEmptyCart)

	receipts, err := queries.FindReceiptsByUserId(c, userId)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestCheckoutOnlyTouchesOwnCart(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	buyer := uuid.New()
	bystander := uuid.New()
	fillCart(t, c, queries, buyer, "GS25", map[string]struct {
		price    string
		quantity int32
	}{"Banana Milk": {price: "1.20", quantity: 1}})
	fillCart(t, c, queries, bystander, "CU", map[string]struct {
		price    string
		quantity int32
	}{"Onigiri": {price: "2.00", quantity: 1}})

	_, err := svc.Checkout(c, buyer)
	require.NoError(t, err)

	remaining, err := queries.FindCartItemsByUserId(c, bystander)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestListReceiptsNewestFirst(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	fillCart(t, c, queries, userId, "GS25", map[string]struct {
		price    string
		quantity int32
	}{"Banana Milk": {price: "1.20", quantity: 1}})
	first, err := svc.Checkout(c, userId)
	require.NoError(t, err)

	fillCart(t, c, queries, userId, "CU", map[string]struct {
		price    string
		quantity int32
	}{"Onigiri": {price: "2.00", quantity: 3}})
	second, err := svc.Checkout(c, userId)
	require.NoError(t, err)

	receipts, err := svc.ListReceipts(c, userId)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, second.ID, receipts[0].ID)
	assert.Equal(t, first.ID, receipts[1].ID)
	require.Len(t, receipts[0].ReceiptItems, 1)
	assert.Equal(t, "Onigiri", receipts[0].ReceiptItems[0].ProductName)
	assert.Equal(t, int32(3), receipts[0].ReceiptItems[0].Quantity)
}

func TestDeleteReceipt(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	fillCart(t, c, queries, userId, "GS25", map[string]struct {
		price    string
		quantity int32
	}{"Banana Milk": {price: "1.20", quantity: 1}})
	receipt, err := svc.Checkout(c, userId)
	require.NoError(t, err)

	err = svc.DeleteReceipt(c, userId, uuid.New())
	assert.ErrorIs(t, err, errors.ErrReceiptNotFound)

	// a receipt belonging to someone else is reported as not found
	err = svc.DeleteReceipt(c, uuid.New(), receipt.ID)
	assert.ErrorIs(t, err, errors.ErrReceiptNotFound)

	err = svc.DeleteReceipt(c, userId, receipt.ID)
	require.NoError(t, err)

	receipts, err := svc.ListReceipts(c, userId)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}
