package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/scanmart/scanmart/cart/pkg/request"
	"github.com/scanmart/scanmart/cart/pkg/response"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
)

type CartService struct {
	queries *repository.Queries
}

func NewCartService(queries *repository.Queries) *CartService {
	return &CartService{queries: queries}
}

// AddItem puts a product into the user's cart or bumps its quantity by
// one when it is already there. A cart only ever holds products from a
// single shop, so a product from a different shop is rejected until the
// cart is cleared.
func (svc *CartService) AddItem(
	c context.Context,
	userId uuid.UUID,
	param request.AddCartItem,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, param.ProductId.String()).
		Str(log.KeyShopName, param.ShopName).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking cart shop").Logger()
	logger.Trace().Msg("checking cart shop")
	span.AddEvent("checking cart shop")
	shopName, err := svc.queries.FindCartShopByUserId(c, userId)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding cart shop with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	if err == nil && shopName != param.ShopName {
		logger.Error().
			Err(inErrors.ErrShopMismatch).
			Str(log.KeyShopName, shopName).
			Msg(inErrors.ErrShopMismatch.Error())
		otel.RecordError(inErrors.ErrShopMismatch, span)
		return response.CartItem{}, inErrors.ErrShopMismatch
	}
	span.AddEvent("checked cart shop")
	logger.Info().Msg("checked cart shop")

	logger = logger.With().Str(log.KeyProcess, "upserting cart item").Logger()
	logger.Trace().Msg("upserting cart item")
	span.AddEvent("upserting cart item")
	c = logger.WithContext(c)
	cartItem, err := svc.queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:          uuid.New(),
		UserID:      userId,
		ProductID:   param.ProductId,
		ProductName: param.ProductName,
		Price: pgtype.Numeric{
			InfinityModifier: pgtype.Finite,
			Int:              param.Price.Coefficient(),
			Exp:              param.Price.Exponent(),
			Valid:            true,
		},
		ShopName: param.ShopName,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	span.AddEvent("upserted cart item")
	logger.Info().
		Int32(log.KeyQuantity, cartItem.Quantity).
		Msg("upserted cart item")

	return cartItem.Response(), nil
}

// ListCart returns the cart in insertion order with each item's
// bookmark flag and line total.
func (svc *CartService) ListCart(
	c context.Context,
	userId uuid.UUID,
) ([]response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService ListCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ListCart").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart items").Logger()
	logger.Trace().Msg("finding cart items")
	span.AddEvent("finding cart items")
	rows, err := svc.queries.FindCartItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found cart items")
	logger.Info().Int("count", len(rows)).Msg("found cart items")

	cartItems := make([]response.CartItem, 0, len(rows))
	for _, row := range rows {
		cartItems = append(cartItems, row.Response())
	}
	return cartItems, nil
}

// UpdateQuantity sets an item's quantity to an absolute value of at
// least one. Removing an item goes through RemoveItem instead.
func (svc *CartService) UpdateQuantity(
	c context.Context,
	userId uuid.UUID,
	productId uuid.UUID,
	param request.UpdateQuantity,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity < 1 {
		logger.Error().
			Err(inErrors.ErrInvalidQuantity).
			Msg(inErrors.ErrInvalidQuantity.Error())
		return response.CartItem{}, inErrors.ErrInvalidQuantity
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item quantity").Logger()
	logger.Trace().Msg("updating cart item quantity")
	span.AddEvent("updating cart item quantity")
	cartItem, err := svc.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		UserID:    userId,
		ProductID: productId,
		Quantity:  param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrCartItemNotFound).
				Msg(inErrors.ErrCartItemNotFound.Error())
			return response.CartItem{}, inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf("failed updating cart item quantity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	span.AddEvent("updated cart item quantity")
	logger.Info().Msg("updated cart item quantity")

	return cartItem.Response(), nil
}

func (svc *CartService) RemoveItem(
	c context.Context,
	userId uuid.UUID,
	productId uuid.UUID,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting cart item").Logger()
	logger.Trace().Msg("deleting cart item")
	span.AddEvent("deleting cart item")
	cartItem, err := svc.queries.DeleteCartItem(c, repository.DeleteCartItemParams{
		UserID:    userId,
		ProductID: productId,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrCartItemNotFound).
				Msg(inErrors.ErrCartItemNotFound.Error())
			return response.CartItem{}, inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf("failed deleting cart item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	span.AddEvent("deleted cart item")
	logger.Info().Msg("deleted cart item")

	return cartItem.Response(), nil
}

// Clear empties the cart so the user can start shopping in another
// shop. Clearing an already empty cart is not an error.
func (svc *CartService) Clear(c context.Context, userId uuid.UUID) (int64, error) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	span.AddEvent("clearing cart")
	deleted, err := svc.queries.DeleteCartByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	span.AddEvent("cleared cart")
	logger.Info().Int64("deleted", deleted).Msg("cleared cart")

	return deleted, nil
}
