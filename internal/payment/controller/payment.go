package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/middleware"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/payment/service"
	"github.com/scanmart/scanmart/payment/pkg/request"
)

type PaymentController struct {
	service *service.PaymentService
}

func AttachPaymentController(router *mux.Router, service *service.PaymentService) {
	controller := PaymentController{service: service}

	r := router.PathPrefix("/payments").Subrouter()
	r.HandleFunc("/session", controller.CreateCheckoutSession).Methods(http.MethodPost)
	r.HandleFunc("/success", controller.PaymentSuccess).Methods(http.MethodPost)
}

func (t PaymentController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController CreateCheckoutSession")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController CreateCheckoutSession").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.CheckoutSession{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "creating checkout session").Logger()
	logger.Info().Msg("creating checkout session")
	c = logger.WithContext(c)
	session, err := t.service.CreateCheckoutSession(c, userId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating checkout session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyPaymentSessionID, session.ID).Msg("created checkout session")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "checkout session created",
		"data":       map[string]interface{}{"session": session},
	})
}

func (t PaymentController) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController PaymentSuccess")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController PaymentSuccess").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "completing payment").Logger()
	logger.Info().Msg("completing payment")
	c = logger.WithContext(c)
	receipt, err := t.service.PaymentSuccess(c, userId)
	if err != nil {
		err = fmt.Errorf("failed completing payment with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyReceiptID, receipt.ID.String()).Msg("completed payment")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "payment completed",
		"data":       map[string]interface{}{"receipt": receipt},
	})
}
