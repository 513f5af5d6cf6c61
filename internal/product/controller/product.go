package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/product/service"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	r := router.PathPrefix("/products").Subrouter()
	r.HandleFunc("/{barcode}", controller.FindProductByBarcode).Methods(http.MethodGet)
}

func (t ProductController) FindProductByBarcode(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductByBarcode")
	defer span.End()

	barcode := mux.Vars(r)["barcode"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductByBarcode").
		Str(log.KeyBarcode, barcode).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product by barcode").Logger()
	logger.Info().Msg("finding product by barcode")
	c = logger.WithContext(c)
	product, err := t.service.FindProductByBarcode(c, barcode)
	if err != nil {
		err = fmt.Errorf("failed finding product by barcode=%s with error=%w", barcode, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found product by barcode")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "product found",
		"data":       map[string]interface{}{"product": product},
	})
}
