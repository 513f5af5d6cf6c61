package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/scanmart/scanmart/internal/bookmark/service"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/middleware"
	"github.com/scanmart/scanmart/internal/otel"
)

type BookmarkController struct {
	service *service.BookmarkService
}

func AttachBookmarkController(router *mux.Router, service *service.BookmarkService) {
	controller := BookmarkController{service: service}

	r := router.PathPrefix("/bookmarks").Subrouter()
	r.HandleFunc("", controller.List).Methods(http.MethodGet)
	r.HandleFunc("/{productId}", controller.Add).Methods(http.MethodPost)
	r.HandleFunc("/{productId}", controller.Remove).Methods(http.MethodDelete)
}

func (t BookmarkController) Add(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "BookmarkController Add")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkController Add").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing productId").Logger()
	productId, err := uuid.Parse(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "adding bookmark").Logger()
	logger.Info().Msg("adding bookmark")
	c = logger.WithContext(c)
	err = t.service.Add(c, userId, productId)
	if err != nil {
		err = fmt.Errorf("failed adding bookmark with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added bookmark")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "bookmark added",
	})
}

func (t BookmarkController) Remove(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "BookmarkController Remove")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkController Remove").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing productId").Logger()
	productId, err := uuid.Parse(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "removing bookmark").Logger()
	logger.Info().Msg("removing bookmark")
	c = logger.WithContext(c)
	err = t.service.Remove(c, userId, productId)
	if err != nil {
		err = fmt.Errorf("failed removing bookmark with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed bookmark")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "bookmark removed",
	})
}

func (t BookmarkController) List(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "BookmarkController List")
	defer span.End()

	userId := middleware.UserIdFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkController List").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing bookmarks").Logger()
	logger.Info().Msg("listing bookmarks")
	c = logger.WithContext(c)
	bookmarks, err := t.service.List(c, userId)
	if err != nil {
		err = fmt.Errorf("failed listing bookmarks with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("listed bookmarks")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "bookmarks found",
		"data":       map[string]interface{}{"bookmarks": bookmarks},
	})
}
