package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inErrors "github.com/scanmart/scanmart/internal/errors"
	inHttp "github.com/scanmart/scanmart/internal/http"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/session"
	"github.com/scanmart/scanmart/internal/token"
)

type claimsKey struct{}

func ClaimsFromContext(c context.Context) *jwt.RegisteredClaims {
	claims, ok := c.Value(claimsKey{}).(*jwt.RegisteredClaims)
	if !ok {
		return nil
	}
	return claims
}

// Auth verifies the bearer token signature and checks the token id
// against the session store, so tokens revoked by logout stop working
// before their expiry.
func Auth(store *session.Store, secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().Str(log.KeyTag, "middleware Auth").Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				logger.Error().
					Err(inErrors.ErrEmptyAuth).
					Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			bearer := strings.TrimPrefix(authorization, "Bearer ")
			claims, err := token.Verify(c, secretKey, bearer)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			if _, err = store.Get(c, claims.ID); err != nil {
				logger.Error().Err(err).Msg("session is revoked or expired")
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			userId, err := uuid.Parse(claims.Subject)
			if err != nil {
				logger.Error().Err(err).Msg("token subject is not a user id")
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
			c = AttachUserIdToContext(logger.WithContext(c), userId)
			c = context.WithValue(c, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
