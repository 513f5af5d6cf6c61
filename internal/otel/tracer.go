package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/scanmart/scanmart/internal/constants"
)

var Tracer = otel.Tracer(constants.AppName)
