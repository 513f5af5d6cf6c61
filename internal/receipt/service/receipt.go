package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/receipt/pkg/response"
)

type ReceiptService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewReceiptService(pool *pgxpool.Pool, queries *repository.Queries) *ReceiptService {
	return &ReceiptService{pool: pool, queries: queries}
}

// Checkout converts the user's cart into a receipt inside one
// transaction. The cart rows are locked, summed into the receipt
// total, copied into receipt items and deleted, so either all of it
// happens or none of it does.
func (svc *ReceiptService) Checkout(
	c context.Context,
	userId uuid.UUID,
) (response.Receipt, error) {
	c, span := otel.Tracer.Start(c, "ReceiptService Checkout")
	defer span.End()

	state := StateIdle
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReceiptService Checkout").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	qtx := svc.queries.WithTx(tx)

	state = StateValidating
	logger = logger.With().
		Str(log.KeyProcess, "locking cart items").
		Str(log.KeyCheckoutState, state.String()).
		Logger()
	logger.Trace().Msg("locking cart items")
	span.AddEvent("locking cart items")
	cartItems, err := qtx.FindCartItemsByUserIdForUpdate(c, userId)
	if err != nil {
		err = fmt.Errorf("failed locking cart items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	if len(cartItems) == 0 {
		logger.Error().
			Err(inErrors.ErrEmptyCart).
			Str(log.KeyCheckoutState, StateAborted.String()).
			Msg(inErrors.ErrEmptyCart.Error())
		return response.Receipt{}, inErrors.ErrEmptyCart
	}
	span.AddEvent("locked cart items")
	logger.Info().Int("count", len(cartItems)).Msg("locked cart items")

	totalSum := decimal.Zero
	for _, item := range cartItems {
		price := decimal.NewFromBigInt(item.Price.Int, item.Price.Exp)
		totalSum = totalSum.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	state = StateCommitting
	logger = logger.With().
		Str(log.KeyProcess, "inserting receipt").
		Str(log.KeyCheckoutState, state.String()).
		Str(log.KeyTotalSum, totalSum.String()).
		Logger()
	logger.Trace().Msg("inserting receipt")
	span.AddEvent("inserting receipt")
	receipt, err := qtx.InsertReceipt(c, repository.InsertReceiptParams{
		ID:       uuid.New(),
		UserID:   userId,
		ShopName: cartItems[0].ShopName,
		TotalSum: pgtype.Numeric{
			InfinityModifier: pgtype.Finite,
			Int:              totalSum.Coefficient(),
			Exp:              totalSum.Exponent(),
			Valid:            true,
		},
	})
	if err != nil {
		err = fmt.Errorf("failed inserting receipt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	span.AddEvent("inserted receipt")
	logger = logger.With().Str(log.KeyReceiptID, receipt.ID.String()).Logger()
	logger.Info().Msg("inserted receipt")

	logger = logger.With().Str(log.KeyProcess, "inserting receipt items").Logger()
	logger.Trace().Msg("inserting receipt items")
	span.AddEvent("inserting receipt items")
	args := make([]repository.InsertReceiptItemsParams, 0, len(cartItems))
	for _, item := range cartItems {
		args = append(args, repository.InsertReceiptItemsParams{
			ID:          uuid.New(),
			ReceiptID:   receipt.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	insertedCount, err := qtx.InsertReceiptItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting receipt items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	span.AddEvent("inserted receipt items")
	logger.Info().Int64("insertedCount", insertedCount).Msg("inserted receipt items")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	span.AddEvent("clearing cart")
	_, err = qtx.DeleteCartByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	span.AddEvent("cleared cart")
	logger.Info().Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Receipt{}, err
	}
	state = StateDone
	logger.Info().Str(log.KeyCheckoutState, state.String()).Msg("committed transaction")

	receiptItems := make([]response.ReceiptItem, 0, len(args))
	for _, arg := range args {
		receiptItems = append(receiptItems, response.ReceiptItem{
			ID:          arg.ID,
			ReceiptID:   arg.ReceiptID,
			ProductID:   arg.ProductID,
			ProductName: arg.ProductName,
			Quantity:    arg.Quantity,
			Price:       decimal.NewFromBigInt(arg.Price.Int, arg.Price.Exp),
		})
	}
	receiptResponse := receipt.Response()
	receiptResponse.ReceiptItems = receiptItems
	return receiptResponse, nil
}

// ListReceipts returns the user's purchase history, newest first, each
// receipt with its items.
func (svc *ReceiptService) ListReceipts(
	c context.Context,
	userId uuid.UUID,
) ([]response.Receipt, error) {
	c, span := otel.Tracer.Start(c, "ReceiptService ListReceipts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReceiptService ListReceipts").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding receipts").Logger()
	logger.Trace().Msg("finding receipts")
	span.AddEvent("finding receipts")
	rows, err := svc.queries.FindReceiptsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding receipts with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found receipts")
	logger.Info().Int("count", len(rows)).Msg("found receipts")

	receipts := make([]response.Receipt, 0, len(rows))
	for _, row := range rows {
		receipt, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed decoding receipt items with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its items in one transaction.
// Receipts belonging to another user are reported as not found.
func (svc *ReceiptService) DeleteReceipt(
	c context.Context,
	userId uuid.UUID,
	receiptId uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "ReceiptService DeleteReceipt")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReceiptService DeleteReceipt").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyReceiptID, receiptId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "finding receipt").Logger()
	logger.Trace().Msg("finding receipt")
	span.AddEvent("finding receipt")
	receipt, err := qtx.FindReceiptById(c, receiptId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrReceiptNotFound).
				Msg(inErrors.ErrReceiptNotFound.Error())
			return inErrors.ErrReceiptNotFound
		}
		err = fmt.Errorf("failed finding receipt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if receipt.UserID != userId {
		logger.Error().
			Err(inErrors.ErrReceiptNotFound).
			Msg("receipt belongs to another user")
		return inErrors.ErrReceiptNotFound
	}
	span.AddEvent("found receipt")
	logger.Info().Msg("found receipt")

	logger = logger.With().Str(log.KeyProcess, "deleting receipt items").Logger()
	logger.Trace().Msg("deleting receipt items")
	span.AddEvent("deleting receipt items")
	_, err = qtx.DeleteReceiptItemsByReceiptId(c, receiptId)
	if err != nil {
		err = fmt.Errorf("failed deleting receipt items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	span.AddEvent("deleted receipt items")
	logger.Info().Msg("deleted receipt items")

	logger = logger.With().Str(log.KeyProcess, "deleting receipt").Logger()
	logger.Trace().Msg("deleting receipt")
	span.AddEvent("deleting receipt")
	deleted, err := qtx.DeleteReceiptById(c, receiptId)
	if err != nil {
		err = fmt.Errorf("failed deleting receipt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		logger.Error().
			Err(inErrors.ErrReceiptNotFound).
			Msg(inErrors.ErrReceiptNotFound.Error())
		return inErrors.ErrReceiptNotFound
	}
	span.AddEvent("deleted receipt")
	logger.Info().Msg("deleted receipt")

	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	return nil
}
