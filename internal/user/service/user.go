package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/scanmart/scanmart/internal/config"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
	"github.com/scanmart/scanmart/internal/session"
	"github.com/scanmart/scanmart/internal/token"
	"github.com/scanmart/scanmart/user/pkg/request"
	"github.com/scanmart/scanmart/user/pkg/response"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z' -]{2,20}$`)

const minPasswordLength = 8

type UserService struct {
	queries  *repository.Queries
	sessions *session.Store
	config   config.Application
}

func NewUserService(
	queries *repository.Queries,
	sessions *session.Store,
	config config.Application,
) *UserService {
	return &UserService{queries: queries, sessions: sessions, config: config}
}

func validateName(name string) error {
	if !nameRegex.MatchString(name) {
		return inErrors.ErrInvalidName
	}
	return nil
}

// validatePassword enforces the minimum length and requires at least
// one letter and one digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return inErrors.ErrPasswordTooShort
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return inErrors.ErrPasswordMissingClasses
	}
	return nil
}

// Register creates the account, records the password in the history
// table and logs the user straight in by returning a session token.
func (svc *UserService) Register(
	c context.Context,
	param request.Register,
) (response.User, string, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating register request").Logger()
	logger.Trace().Msg("validating register request")
	if err := validateName(param.FirstName); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	if err := validateName(param.LastName); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	if err := validatePassword(param.Password); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	logger.Info().Msg("validated register request")

	logger = logger.With().Str(log.KeyProcess, "checking email uniqueness").Logger()
	logger.Trace().Msg("checking email uniqueness")
	span.AddEvent("checking email uniqueness")
	_, err := svc.queries.FindUserByEmail(c, param.Email)
	if err == nil {
		logger.Error().
			Err(inErrors.ErrEmailTaken).
			Msg(inErrors.ErrEmailTaken.Error())
		otel.RecordError(inErrors.ErrEmailTaken, span)
		return response.User{}, "", inErrors.ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed checking email uniqueness with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	span.AddEvent("checked email uniqueness")
	logger.Info().Msg("email is available")

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Trace().Msg("inserting user")
	span.AddEvent("inserting user")
	user, err := svc.queries.InsertUser(c, repository.InsertUserParams{
		ID:        uuid.New(),
		Email:     param.Email,
		FirstName: param.FirstName,
		LastName:  param.LastName,
		Password:  string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	span.AddEvent("inserted user")
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	logger = logger.With().Str(log.KeyProcess, "recording password history").Logger()
	logger.Trace().Msg("recording password history")
	err = svc.queries.InsertUserPassword(c, repository.InsertUserPasswordParams{
		ID:       uuid.New(),
		UserID:   user.ID,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed recording password history with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	logger.Info().Msg("recorded password history")

	signed, err := svc.startSession(c, user.ID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}

	return user.Response(), signed, nil
}

// Login verifies credentials and issues a session token. Failed
// password attempts are counted until the next successful login.
func (svc *UserService) Login(
	c context.Context,
	param request.Login,
) (response.User, string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user by email").Logger()
	logger.Trace().Msg("finding user by email")
	span.AddEvent("finding user by email")
	user, err := svc.queries.FindUserByEmail(c, param.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrUserNotFound).
				Msg(inErrors.ErrUserNotFound.Error())
			return response.User{}, "", inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	span.AddEvent("found user by email")
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		logger.Error().
			Err(inErrors.ErrPasswordMismatch).
			Msg(inErrors.ErrPasswordMismatch.Error())
		if err := svc.queries.RecordFailedLogin(c, user.ID); err != nil {
			err = fmt.Errorf("failed recording failed login with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		return response.User{}, "", inErrors.ErrPasswordMismatch
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "recording successful login").Logger()
	logger.Trace().Msg("recording successful login")
	err = svc.queries.RecordSuccessfulLogin(c, user.ID)
	if err != nil {
		err = fmt.Errorf("failed recording successful login with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}
	user.NumSuccessfulLogins++
	user.NumFailedPasswords = 0
	logger.Info().Msg("recorded successful login")

	signed, err := svc.startSession(c, user.ID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, "", err
	}

	return user.Response(), signed, nil
}

func (svc *UserService) startSession(c context.Context, userId uuid.UUID) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService startSession")
	defer span.End()

	signed, jti, err := token.Sign(c, svc.config.SecretKey, userId)
	if err != nil {
		return "", fmt.Errorf("failed signing session token with error=%w", err)
	}
	err = svc.sessions.Put(c, jti, userId.String(), token.SessionDuration)
	if err != nil {
		return "", fmt.Errorf("failed storing session with error=%w", err)
	}
	return signed, nil
}

// Logout revokes the session behind the presented token.
func (svc *UserService) Logout(c context.Context, jti string) error {
	c, span := otel.Tracer.Start(c, "UserService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Logout").
		Str(log.KeySessionID, jti).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "revoking session").Logger()
	logger.Trace().Msg("revoking session")
	err := svc.sessions.Del(c, jti)
	if err != nil {
		err = fmt.Errorf("failed revoking session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("revoked session")

	return nil
}

func (svc *UserService) Details(c context.Context, userId uuid.UUID) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Details")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Details").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Trace().Msg("finding user")
	user, err := svc.queries.FindUserById(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrUserNotFound).
				Msg(inErrors.ErrUserNotFound.Error())
			return response.User{}, inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("found user")

	return user.Response(), nil
}

func (svc *UserService) UpdateDetails(
	c context.Context,
	userId uuid.UUID,
	param request.UpdateDetails,
) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService UpdateDetails")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService UpdateDetails").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating update request").Logger()
	logger.Trace().Msg("validating update request")
	if err := validateName(param.FirstName); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	if err := validateName(param.LastName); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("validated update request")

	logger = logger.With().Str(log.KeyProcess, "checking email uniqueness").Logger()
	logger.Trace().Msg("checking email uniqueness")
	existing, err := svc.queries.FindUserByEmail(c, param.Email)
	if err == nil && existing.ID != userId {
		logger.Error().
			Err(inErrors.ErrEmailTaken).
			Msg(inErrors.ErrEmailTaken.Error())
		return response.User{}, inErrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed checking email uniqueness with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("email is available")

	logger = logger.With().Str(log.KeyProcess, "updating user details").Logger()
	logger.Trace().Msg("updating user details")
	span.AddEvent("updating user details")
	user, err := svc.queries.UpdateUserDetails(c, repository.UpdateUserDetailsParams{
		ID:        userId,
		Email:     param.Email,
		FirstName: param.FirstName,
		LastName:  param.LastName,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrUserNotFound).
				Msg(inErrors.ErrUserNotFound.Error())
			return response.User{}, inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed updating user details with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	span.AddEvent("updated user details")
	logger.Info().Msg("updated user details")

	return user.Response(), nil
}

// UpdatePassword rotates the password. The new password must satisfy
// the password rules, differ from the current one and from every
// password the user has used before.
func (svc *UserService) UpdatePassword(
	c context.Context,
	userId uuid.UUID,
	param request.UpdatePassword,
) error {
	c, span := otel.Tracer.Start(c, "UserService UpdatePassword")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService UpdatePassword").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Trace().Msg("finding user")
	user, err := svc.queries.FindUserById(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrUserNotFound).
				Msg(inErrors.ErrUserNotFound.Error())
			return inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("found user")

	logger = logger.With().Str(log.KeyProcess, "verifying old password").Logger()
	logger.Trace().Msg("verifying old password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.OldPassword))
	if err != nil {
		logger.Error().
			Err(inErrors.ErrOldPasswordMismatch).
			Msg(inErrors.ErrOldPasswordMismatch.Error())
		return inErrors.ErrOldPasswordMismatch
	}
	logger.Info().Msg("verified old password")

	if param.NewPassword == param.OldPassword {
		logger.Error().
			Err(inErrors.ErrPasswordSame).
			Msg(inErrors.ErrPasswordSame.Error())
		return inErrors.ErrPasswordSame
	}
	if err := validatePassword(param.NewPassword); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "checking password history").Logger()
	logger.Trace().Msg("checking password history")
	span.AddEvent("checking password history")
	history, err := svc.queries.FindUserPasswordsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed checking password history with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	for _, old := range history {
		if bcrypt.CompareHashAndPassword([]byte(old.Password), []byte(param.NewPassword)) == nil {
			logger.Error().
				Err(inErrors.ErrPasswordReused).
				Msg(inErrors.ErrPasswordReused.Error())
			return inErrors.ErrPasswordReused
		}
	}
	span.AddEvent("checked password history")
	logger.Info().Msg("checked password history")

	logger = logger.With().Str(log.KeyProcess, "updating password").Logger()
	logger.Trace().Msg("updating password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing new password with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = svc.queries.UpdateUserPassword(c, repository.UpdateUserPasswordParams{
		ID:       userId,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed updating password with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = svc.queries.InsertUserPassword(c, repository.InsertUserPasswordParams{
		ID:       uuid.New(),
		UserID:   userId,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed recording password history with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	span.AddEvent("updated password")
	logger.Info().Msg("updated password")

	return nil
}
