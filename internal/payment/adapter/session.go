package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/scanmart/scanmart/internal/config"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
)

// SessionCreator abstracts the payment provider so the service can be
// tested without network access.
type SessionCreator interface {
	CreateSession(c context.Context, param CreateSessionParams) (Session, error)
}

type CreateSessionParams struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	LineItems []LineItem      `json:"line_items"`
}

type LineItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(cfg config.Payment) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// CreateSession registers a pending payment with the provider and
// returns the session the shopper is redirected to.
func (cl *Client) CreateSession(
	c context.Context,
	param CreateSessionParams,
) (Session, error) {
	c, span := otel.Tracer.Start(c, "PaymentClient CreateSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentClient CreateSession").
		Str(log.KeyTotalSum, param.Amount.String()).
		Logger()

	body := bytes.Buffer{}
	err := json.NewEncoder(&body).Encode(param)
	if err != nil {
		err = fmt.Errorf("failed encoding session request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	url := cl.baseURL + "/sessions"
	req, err := http.NewRequestWithContext(c, http.MethodPost, url, &body)
	if err != nil {
		err = fmt.Errorf("failed creating session request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}
	req.Header.Set(inHttp.HeaderContentType, inHttp.HeaderValueJson)
	req.Header.Set("Authorization", "Bearer "+cl.apiKey)

	logger = logger.With().Str(log.KeyProcess, "calling payment provider").Logger()
	logger.Trace().Msg("calling payment provider")
	span.AddEvent("calling payment provider")
	res, err := cl.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling payment provider with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		err = fmt.Errorf("payment provider responded with statusCode=%d", res.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}

	session := Session{}
	err = json.NewDecoder(res.Body).Decode(&session)
	if err != nil {
		err = fmt.Errorf("failed decoding session response with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}
	span.AddEvent("created payment session")
	logger.Info().Str(log.KeyPaymentSessionID, session.ID).Msg("created payment session")

	return session, nil
}
