package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scanmart/scanmart/internal/cache"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/product/pkg/response"
)

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) *ProductService {
	return &ProductService{queries: queries, cache: cache}
}

// FindProductByBarcode resolves a scanned barcode to a product,
// reading through the cache before hitting the database.
func (svc *ProductService) FindProductByBarcode(
	c context.Context,
	barcode string,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductByBarcode")
	defer span.End()

	cacheKey := cache.KeyProducts + barcode
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductByBarcode").
		Str(log.KeyBarcode, barcode).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	jsonCache, err := svc.cache.JSONGet(c, cacheKey, "$").Result()
	if err == nil && jsonCache != "" {
		products := []response.Product{}
		if err := json.Unmarshal([]byte(jsonCache), &products); err == nil && len(products) == 1 {
			span.AddEvent("found product in cache")
			logger.Info().Msg("found product in cache")
			return products[0], nil
		}
	}
	logger.Info().Msg("product not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding product in database").Logger()
	logger.Trace().Msg("finding product in database")
	span.AddEvent("finding product in database")
	product, err := svc.queries.FindProductByBarcode(c, barcode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrProductNotFound).
				Msg(inErrors.ErrProductNotFound.Error())
			return response.Product{}, inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding product by barcode=%s with error=%w", barcode, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	span.AddEvent("found product in database")
	logger.Info().Msg("found product in database")

	logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
	logger.Trace().Msg("inserting product to cache")
	err = svc.cache.JSONSet(c, cacheKey, "$", product.Response()).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return product.Response(), nil
	}
	span.AddEvent("inserted product to cache")
	logger.Info().Msg("inserted product to cache")

	return product.Response(), nil
}
