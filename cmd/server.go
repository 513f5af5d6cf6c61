package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	bookmarkController "github.com/scanmart/scanmart/internal/bookmark/controller"
	bookmarkService "github.com/scanmart/scanmart/internal/bookmark/service"
	cartController "github.com/scanmart/scanmart/internal/cart/controller"
	cartService "github.com/scanmart/scanmart/internal/cart/service"
	"github.com/scanmart/scanmart/internal/config"
	"github.com/scanmart/scanmart/internal/constants"
	"github.com/scanmart/scanmart/internal/infra"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/middleware"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/internal/session"
	paymentAdapter "github.com/scanmart/scanmart/internal/payment/adapter"
	paymentController "github.com/scanmart/scanmart/internal/payment/controller"
	paymentService "github.com/scanmart/scanmart/internal/payment/service"
	productController "github.com/scanmart/scanmart/internal/product/controller"
	productService "github.com/scanmart/scanmart/internal/product/service"
	receiptController "github.com/scanmart/scanmart/internal/receipt/controller"
	receiptService "github.com/scanmart/scanmart/internal/receipt/service"
	userController "github.com/scanmart/scanmart/internal/user/controller"
	userService "github.com/scanmart/scanmart/internal/user/service"
)

func RunServer(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppName).
		Str(log.KeyTag, "main RunServer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppName)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppName, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = otel.ShutdownOtel(c, otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	queries := repository.New(db)
	sessions := session.NewStore(cache)
	products := productService.NewProductService(queries, cache)
	carts := cartService.NewCartService(queries)
	bookmarks := bookmarkService.NewBookmarkService(queries)
	receipts := receiptService.NewReceiptService(db, queries)
	payments := paymentService.NewPaymentService(
		queries,
		cache,
		paymentAdapter.NewClient(cfg.Payment),
		receipts,
	)
	users := userService.NewUserService(queries, sessions, cfg.Application)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppName),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	productController.AttachProductController(router, products)

	userScoped := router.NewRoute().Subrouter()
	userScoped.Use(middleware.UserID)
	cartController.AttachCartController(userScoped, carts, receipts)
	bookmarkController.AttachBookmarkController(userScoped, bookmarks)
	receiptController.AttachReceiptController(userScoped, receipts)
	paymentController.AttachPaymentController(userScoped, payments)

	userController.AttachUserController(
		router,
		users,
		middleware.Auth(sessions, cfg.Application.SecretKey),
	)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
