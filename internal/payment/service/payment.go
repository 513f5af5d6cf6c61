package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/scanmart/scanmart/internal/cache"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/internal/payment/adapter"
	"github.com/scanmart/scanmart/payment/pkg/request"
	receiptService "github.com/scanmart/scanmart/internal/receipt/service"
	receiptResponse "github.com/scanmart/scanmart/receipt/pkg/response"
)

// Prices only carry two decimal places, so anything beyond a cent of
// drift between the client's total and the stored cart is a stale cart.
var totalEpsilon = decimal.NewFromFloat(0.01)

const authorizationTTL = 30 * time.Minute

type PaymentService struct {
	queries  *repository.Queries
	cacheCli *redis.Client
	provider adapter.SessionCreator
	receipts *receiptService.ReceiptService
}

func NewPaymentService(
	queries *repository.Queries,
	cacheCli *redis.Client,
	provider adapter.SessionCreator,
	receipts *receiptService.ReceiptService,
) *PaymentService {
	return &PaymentService{
		queries:  queries,
		cacheCli: cacheCli,
		provider: provider,
		receipts: receipts,
	}
}

// CreateCheckoutSession validates the client's view of the cart against
// the stored cart and opens a payment session. A successful session
// authorizes this user's checkout for a limited window.
func (svc *PaymentService) CreateCheckoutSession(
	c context.Context,
	userId uuid.UUID,
	param request.CheckoutSession,
) (adapter.Session, error) {
	c, span := otel.Tracer.Start(c, "PaymentService CreateCheckoutSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService CreateCheckoutSession").
		Str(log.KeyUserID, userId.String()).
		Logger()

	clientTotal := decimal.Zero
	lineItems := make([]adapter.LineItem, 0, len(param.Cart))
	for _, line := range param.Cart {
		clientTotal = clientTotal.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
		lineItems = append(lineItems, adapter.LineItem{
			Name:     line.ProductName,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	logger = logger.With().
		Str(log.KeyProcess, "validating cart total").
		Str(log.KeyTotalSum, clientTotal.String()).
		Logger()
	logger.Trace().Msg("validating cart total")
	span.AddEvent("validating cart total")
	storedSum, err := svc.queries.SumCartTotalByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed summing cart total with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return adapter.Session{}, err
	}
	storedTotal := decimal.NewFromBigInt(storedSum.Int, storedSum.Exp)
	if clientTotal.Sub(storedTotal).Abs().GreaterThan(totalEpsilon) {
		logger.Error().
			Err(inErrors.ErrTotalMismatch).
			Str("storedTotal", storedTotal.String()).
			Msg(inErrors.ErrTotalMismatch.Error())
		otel.RecordError(inErrors.ErrTotalMismatch, span)
		return adapter.Session{}, inErrors.ErrTotalMismatch
	}
	span.AddEvent("validated cart total")
	logger.Info().Msg("validated cart total")

	logger = logger.With().
		Str(log.KeyProcess, "creating payment session").
		Str(log.KeyCheckoutState, receiptService.StateAuthorizing.String()).
		Logger()
	logger.Trace().Msg("creating payment session")
	c = logger.WithContext(c)
	session, err := svc.provider.CreateSession(c, adapter.CreateSessionParams{
		Reference: userId.String(),
		Amount:    clientTotal,
		LineItems: lineItems,
	})
	if err != nil {
		err = fmt.Errorf("failed creating payment session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return adapter.Session{}, err
	}
	logger = logger.With().Str(log.KeyPaymentSessionID, session.ID).Logger()
	logger.Info().Msg("created payment session")

	logger = logger.With().Str(log.KeyProcess, "marking checkout authorized").Logger()
	logger.Trace().Msg("marking checkout authorized")
	markerKey := cache.KeyCheckoutAuthorized + userId.String()
	err = svc.cacheCli.Set(c, markerKey, session.ID, authorizationTTL).Err()
	if err != nil {
		err = fmt.Errorf("failed marking checkout authorized with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return adapter.Session{}, err
	}
	span.AddEvent("marked checkout authorized")
	logger.Info().Msg("marked checkout authorized")

	return session, nil
}

// PaymentSuccess finishes a checkout after the provider confirmed the
// payment. It only commits when an unexpired authorization marker
// exists for the user, and consumes that marker so the session cannot
// be replayed.
func (svc *PaymentService) PaymentSuccess(
	c context.Context,
	userId uuid.UUID,
) (receiptResponse.Receipt, error) {
	c, span := otel.Tracer.Start(c, "PaymentService PaymentSuccess")
	defer span.End()

	markerKey := cache.KeyCheckoutAuthorized + userId.String()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService PaymentSuccess").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyCacheKey, markerKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking checkout authorization").Logger()
	logger.Trace().Msg("checking checkout authorization")
	sessionId, err := svc.cacheCli.Get(c, markerKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.Error().
				Err(inErrors.ErrCheckoutNotAuthorized).
				Msg(inErrors.ErrCheckoutNotAuthorized.Error())
			otel.RecordError(inErrors.ErrCheckoutNotAuthorized, span)
			return receiptResponse.Receipt{}, inErrors.ErrCheckoutNotAuthorized
		}
		err = fmt.Errorf("failed checking checkout authorization with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return receiptResponse.Receipt{}, err
	}
	span.AddEvent("checked checkout authorization")
	logger = logger.With().Str(log.KeyPaymentSessionID, sessionId).Logger()
	logger.Info().Msg("checkout is authorized")

	logger = logger.With().Str(log.KeyProcess, "committing checkout").Logger()
	logger.Trace().Msg("committing checkout")
	c = logger.WithContext(c)
	receipt, err := svc.receipts.Checkout(c, userId)
	if err != nil {
		err = fmt.Errorf("failed committing checkout with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return receiptResponse.Receipt{}, err
	}
	span.AddEvent("committed checkout")
	logger.Info().Str(log.KeyReceiptID, receipt.ID.String()).Msg("committed checkout")

	logger = logger.With().Str(log.KeyProcess, "consuming authorization marker").Logger()
	logger.Trace().Msg("consuming authorization marker")
	err = svc.cacheCli.Del(c, markerKey).Err()
	if err != nil {
		err = fmt.Errorf("failed consuming authorization marker with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	return receipt, nil
}
