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
) (*pgxpool.Pool, *postgres.PostgresContainer, *repository.Queries, *BookmarkService) {
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
			filepath.Join("..", "..", "..", "migrations", "20250114093104_create_table_bookmarks.up.sql"),
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
	bookmarkService := NewBookmarkService(queries)
	return pool, pgContainer, queries, bookmarkService
}

func teardown(t *testing.T, pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer) {
	t.Helper()

	pool.Close()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func pgtypeNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		Valid:            true,
	}
}

func insertProduct(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	barcode string,
	name string,
	price string,
) repository.Product {
	t.Helper()

	d := decimal.RequireFromString(price)
	product, err := queries.InsertProduct(c, repository.InsertProductParams{
		ID:       uuid.New(),
		Barcode:  barcode,
		Name:     name,
		Price:    pgtypeNumeric(d),
		ShopName: "GS25",
	})
	require.NoError(t, err)
	return product
}

func TestAddBookmarkTwiceIsConflict(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()
	product := insertProduct(t, c, queries, "8801234567890", "Banana Milk", "1.20")

	err := svc.Add(c, userId, product.ID)
	require.NoError(t, err)

	err = svc.Add(c, userId, product.ID)
	assert.ErrorIs(t, err, errors.ErrAlreadyBookmarked)

	// another user may bookmark the same product
	err = svc.Add(c, uuid.New(), product.ID)
	assert.NoError(t, err)
}

func TestRemoveMissingBookmark(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	err := svc.Remove(c, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrBookmarkNotFound)
}

func TestListBookmarks(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t, c)
	defer teardown(t, pool, pgContainer)

	userId := uuid.New()

	bookmarks, err := svc.List(c, userId)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	banana := insertProduct(t, c, queries, "8801234567890", "Banana Milk", "1.20")
	onigiri := insertProduct(t, c, queries, "8809876543210", "Onigiri", "2.00")
	require.NoError(t, svc.Add(c, userId, banana.ID))
	require.NoError(t, svc.Add(c, userId, onigiri.ID))

	bookmarks, err = svc.List(c, userId)
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)

	byId := map[uuid.UUID]string{}
	for _, b := range bookmarks {
		byId[b.ProductID] = b.ProductName
	}
	assert.Equal(t, "Banana Milk", byId[banana.ID])
	assert.Equal(t, "Onigiri", byId[onigiri.ID])

	require.NoError(t, svc.Remove(c, userId, banana.ID))
	bookmarks, err = svc.List(c, userId)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, onigiri.ID, bookmarks[0].ProductID)
}
