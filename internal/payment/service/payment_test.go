package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/scanmart/scanmart/internal/cache"
	"github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/internal/payment/adapter"
	"github.com/scanmart/scanmart/payment/pkg/request"
	receiptService "github.com/scanmart/scanmart/internal/receipt/service"
)

// fakeProvider stands in for the payment provider and records whether
// it was called.
type fakeProvider struct {
	calls   int
	session adapter.Session
	err     error
}

func (f *fakeProvider) CreateSession(
	c context.Context,
	param adapter.CreateSessionParams,
) (adapter.Session, error) {
	f.calls++
	if f.err != nil {
		return adapter.Session{}, f.err
	}
	return f.session, nil
}

func setup(
	t *testing.T,
	c context.Context,
	provider adapter.SessionCreator,
) (*pgxpool.Pool, *redis.Client, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, *PaymentService) {
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

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	receipts := receiptService.NewReceiptService(pool, queries)
	paymentService := NewPaymentService(queries, redisClient, provider, receipts)
	return pool, redisClient, pgContainer, redisContainer, queries, paymentService
}

func teardown(
	t *testing.T,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	pgContainer *postgres.PostgresContainer,
	redisContainer *testRedis.RedisContainer,
) {
	t.Helper()

	redisClient.Close()
	pool.Close()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
	if err := testcontainers.TerminateContainer(redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func addCartItem(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	userId uuid.UUID,
	name string,
	price string,
) repository.CartItem {
	t.Helper()

	d := decimal.RequireFromString(price)
	item, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:          uuid.New(),
		UserID:      userId,
		ProductID:   uuid.New(),
		ProductName: name,
		Price: pgtype.Numeric{
			InfinityModifier: pgtype.Finite,
			Int:              d.Coefficient(),
			Exp:              d.Exponent(),
			Valid:            true,
		},
		ShopName: "GS25",
	})
	require.NoError(t, err)
	return item
}

func TestCreateCheckoutSessionTotalMismatch(t *testing.T) {
	c := context.Background()
	provider := &fakeProvider{session: adapter.Session{ID: "sess_1", URL: "https://pay.example/sess_1"}}
	pool, redisClient, pgContainer, redisContainer, queries, svc := setup(t, c, provider)
	defer teardown(t, pool, redisClient, pgContainer, redisContainer)

	userId := uuid.New()
	item := addCartItem(t, c, queries, userId, "Banana Milk", "1.20")

	_, err := svc.CreateCheckoutSession(c, userId, request.CheckoutSession{
		Cart: []request.CartLine{{
			ProductId:   item.ProductID,
			ProductName: item.ProductName,
			Price:       decimal.RequireFromString("0.99"),
			Quantity:    1,
		}},
	})
	assert.ErrorIs(t, err, errors.ErrTotalMismatch)
	assert.Zero(t, provider.calls, "provider must not be called on a stale cart")

	marker, err := redisClient.Exists(c, cache.KeyCheckoutAuthorized+userId.String()).Result()
	require.NoError(t, err)
	assert.Zero(t, marker)
}

func TestCreateCheckoutSessionToleratesCentDrift(t *testing.T) {
	c := context.Background()
	provider := &fakeProvider{session: adapter.Session{ID: "sess_2", URL: "https://pay.example/sess_2"}}
	pool, redisClient, pgContainer, redisContainer, queries, svc := setup(t, c, provider)
	defer teardown(t, pool, redisClient, pgContainer, redisContainer)

	userId := uuid.New()
	item := addCartItem(t, c, queries, userId, "Banana Milk", "1.20")

	session, err := svc.CreateCheckoutSession(c, userId, request.CheckoutSession{
		Cart: []request.CartLine{{
			ProductId:   item.ProductID,
			ProductName: item.ProductName,
			Price:       decimal.RequireFromString("1.21"),
			Quantity:    1,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sess_2", session.ID)
	assert.Equal(t, 1, provider.calls)

	marker, err := redisClient.Get(c, cache.KeyCheckoutAuthorized+userId.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, "sess_2", marker)
}

func TestPaymentSuccessWithoutAuthorization(t *testing.T) {
	c := context.Background()
	provider := &fakeProvider{}
	pool, redisClient, pgContainer, redisContainer, queries, svc := setup(t, c, provider)
	defer teardown(t, pool, redisClient, pgContainer, redisContainer)

	userId := uuid.New()
	addCartItem(t, c, queries, userId, "Banana Milk", "1.20")

	_, err := svc.PaymentSuccess(c, userId)
	assert.ErrorIs(t, err, errors.ErrCheckoutNotAuthorized)

	// cart must be untouched
	cartItems, err := queries.FindCartItemsByUserId(c, userId)
	require.NoError(t, err)
	assert.Len(t, cartItems, 1)
}

func TestPaymentFlowCommitsOnce(t *testing.T) {
	c := context.Background()
	provider := &fakeProvider{session: adapter.Session{ID: "sess_3", URL: "https://pay.example/sess_3"}}
	pool, redisClient, pgContainer, redisContainer, queries, svc := setup(t, c, provider)
	defer teardown(t, pool, redisClient, pgContainer, redisContainer)

	userId := uuid.New()
	item := addCartItem(t, c, queries, userId, "Onigiri", "2.00")

	_, err := svc.CreateCheckoutSession(c, userId, request.CheckoutSession{
		Cart: []request.CartLine{{
			ProductId:   item.ProductID,
			ProductName: item.ProductName,
			Price:       decimal.RequireFromString("2.00"),
			Quantity:    1,
		}},
	})
	require.NoError(t, err)

	receipt, err := svc.PaymentSuccess(c, userId)
	require.NoError(t, err)
	assert.True(t, receipt.TotalSum.Equal(decimal.RequireFromString("2.00")))
	require.Len(t, receipt.ReceiptItems, 1)

	cartItems, err := queries.FindCartItemsByUserId(c, userId)
	require.NoError(t, err)
	assert.Empty(t, cartItems)

	// the authorization marker is consumed, replaying must fail
	_, err = svc.PaymentSuccess(c, userId)
	assert.ErrorIs(t, err, errors.ErrCheckoutNotAuthorized)
}
