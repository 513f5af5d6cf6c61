package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scanmart/scanmart/internal/constants"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
)

// SessionDuration bounds both the token expiry and the session entry
// kept in the store.
const SessionDuration = 30 * 24 * time.Hour

// Sign issues an HS256 token for userId. The returned jti uniquely
// identifies the session so it can be revoked on logout.
func Sign(c context.Context, secretKey string, userId uuid.UUID) (signed string, jti string, err error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "token Sign").
		Str(log.KeyUserID, userId.String()).
		Logger()

	jti = uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			ID:        jti,
			Audience:  jwt.ClaimStrings{constants.AudienceUser},
			Issuer:    constants.AppName,
			Subject:   userId.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	)

	signed, err = token.SignedString([]byte(secretKey))
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return "", "", err
	}

	return signed, jti, nil
}

func Verify(c context.Context, secretKey string, token string) (*jwt.RegisteredClaims, error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "token Verify").Logger()

	claims := &jwt.RegisteredClaims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AudienceUser),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppName),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing with claims with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return nil, inErrors.ErrTokenInvalid
	}

	return claims, nil
}
