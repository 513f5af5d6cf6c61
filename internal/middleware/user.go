package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
)

type userIdKey struct{}

func UserIdFromContext(c context.Context) uuid.UUID {
	userId, ok := c.Value(userIdKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userId
}

func AttachUserIdToContext(c context.Context, userId uuid.UUID) context.Context {
	return context.WithValue(c, userIdKey{}, userId)
}

// UserID resolves the requesting user from the X-User-Id header or the
// userId query parameter. Requests with neither are rejected before
// touching any user scoped resource.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).With().Str(log.KeyTag, "middleware UserID").Logger()
		c := logger.WithContext(r.Context())

		raw := r.Header.Get(inHttp.HeaderUserID)
		if raw == "" {
			raw = r.URL.Query().Get("userId")
		}
		if raw == "" {
			logger.Error().
				Err(inErrors.ErrMissingUserID).
				Msg(inErrors.ErrMissingUserID.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    inErrors.ErrMissingUserID.Error(),
			})
			return
		}

		userId, err := uuid.Parse(raw)
		if err != nil {
			err = fmt.Errorf("failed parsing userId=%s with error=%w", raw, err)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}

		logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
		c = AttachUserIdToContext(logger.WithContext(c), userId)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
