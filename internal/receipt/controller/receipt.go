package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/middleware"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/receipt/service"
)

type ReceiptController struct {
	service *service.ReceiptService
}

func AttachReceiptController(router *mux.Router, service *service.ReceiptService) {
	controller := ReceiptController{service: service}

	r := router.PathPrefix("/receipts").Subrouter()
	r.HandleFunc("", controller.ListReceipts).Methods(http.MethodGet)
	r.HandleFunc("/{receiptId}", controller.DeleteReceipt).Methods(http.MethodDelete)
}

func (t ReceiptController) ListReceipts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReceiptController ListReceipts")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReceiptController ListReceipts").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing receipts").Logger()
	logger.Info().Msg("listing receipts")
	c = logger.WithContext(c)
	receipts, err := t.service.ListReceipts(c, userId)
	if err != nil {
		err = fmt.Errorf("failed listing receipts with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("listed receipts")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "receipts found",
		"data":       map[string]interface{}{"receipts": receipts},
	})
}

func (t ReceiptController) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReceiptController DeleteReceipt")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReceiptController DeleteReceipt").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing receiptId").Logger()
	receiptId, err := uuid.Parse(mux.Vars(r)["receiptId"])
	if err != nil {
		err = fmt.Errorf("failed parsing receiptId with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyReceiptID, receiptId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting receipt").Logger()
	logger.Info().Msg("deleting receipt")
	c = logger.WithContext(c)
	err = t.service.DeleteReceipt(c, userId, receiptId)
	if err != nil {
		err = fmt.Errorf("failed deleting receipt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("deleted receipt")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "receipt deleted",
	})
}
