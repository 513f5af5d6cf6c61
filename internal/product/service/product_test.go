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

	"github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/repository"
)

func setup(
	t *testing.T,
	c context.Context,
) (*pgxpool.Pool, *redis.Client, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, *ProductService) {
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
			filepath.Join("..", "..", "..", "migrations", "20250114092530_create_table_products.up.sql"),
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
	productService := NewProductService(queries, redisClient)
	return pool, redisClient, pgContainer, redisContainer, queries, productService
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

func TestFindProductByBarcode(t *testing.T) {
	c := context.Background()
	pool, redisClient, pgContainer, redisContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, redisClient, pgContainer, redisContainer)

	price := decimal.RequireFromString("1.20")
	inserted, err := queries.InsertProduct(c, repository.InsertProductParams{
		ID:          uuid.New(),
		Barcode:     "8801234567890",
		Name:        "Banana Milk",
		Description: pgtype.Text{String: "240ml bottle", Valid: true},
		Price: pgtype.Numeric{
			InfinityModifier: pgtype.Finite,
			Int:              price.Coefficient(),
			Exp:              price.Exponent(),
			Valid:            true,
		},
		ShopName: "GS25",
	})
	require.NoError(t, err)

	product, err := svc.FindProductByBarcode(c, "8801234567890")
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, product.ID)
	assert.Equal(t, "Banana Milk", product.Name)
	assert.Equal(t, "240ml bottle", product.Description)
	assert.Equal(t, "GS25", product.ShopName)
	assert.True(t, product.Price.Equal(price))

	_, err = svc.FindProductByBarcode(c, "0000000000000")
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
}
