package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/scanmart/scanmart/bookmark/pkg/response"
	inErrors "github.com/scanmart/scanmart/internal/errors"
	"github.com/scanmart/scanmart/internal/log"
	"github.com/scanmart/scanmart/internal/otel"
	"github.com/scanmart/scanmart/internal/repository"
)

const pgUniqueViolation = "23505"

type BookmarkService struct {
	queries *repository.Queries
}

func NewBookmarkService(queries *repository.Queries) *BookmarkService {
	return &BookmarkService{queries: queries}
}

// Add bookmarks a product for the user. Bookmarking the same product
// twice is a conflict.
func (svc *BookmarkService) Add(
	c context.Context,
	userId uuid.UUID,
	productId uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "BookmarkService Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkService Add").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting bookmark").Logger()
	logger.Trace().Msg("inserting bookmark")
	span.AddEvent("inserting bookmark")
	_, err := svc.queries.InsertBookmark(c, repository.InsertBookmarkParams{
		UserID:    userId,
		ProductID: productId,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			logger.Error().
				Err(inErrors.ErrAlreadyBookmarked).
				Msg(inErrors.ErrAlreadyBookmarked.Error())
			return inErrors.ErrAlreadyBookmarked
		}
		err = fmt.Errorf("failed inserting bookmark with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	span.AddEvent("inserted bookmark")
	logger.Info().Msg("inserted bookmark")

	return nil
}

func (svc *BookmarkService) Remove(
	c context.Context,
	userId uuid.UUID,
	productId uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "BookmarkService Remove")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkService Remove").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting bookmark").Logger()
	logger.Trace().Msg("deleting bookmark")
	span.AddEvent("deleting bookmark")
	deleted, err := svc.queries.DeleteBookmark(c, repository.DeleteBookmarkParams{
		UserID:    userId,
		ProductID: productId,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting bookmark with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		logger.Error().
			Err(inErrors.ErrBookmarkNotFound).
			Msg(inErrors.ErrBookmarkNotFound.Error())
		return inErrors.ErrBookmarkNotFound
	}
	span.AddEvent("deleted bookmark")
	logger.Info().Msg("deleted bookmark")

	return nil
}

// List returns the user's bookmarks, empty when none exist.
func (svc *BookmarkService) List(
	c context.Context,
	userId uuid.UUID,
) ([]response.Bookmark, error) {
	c, span := otel.Tracer.Start(c, "BookmarkService List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BookmarkService List").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding bookmarks").Logger()
	logger.Trace().Msg("finding bookmarks")
	span.AddEvent("finding bookmarks")
	rows, err := svc.queries.FindBookmarksByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding bookmarks with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found bookmarks")
	logger.Info().Int("count", len(rows)).Msg("found bookmarks")

	bookmarks := make([]response.Bookmark, 0, len(rows))
	for _, row := range rows {
		bookmarks = append(bookmarks, row.Response())
	}
	return bookmarks, nil
}
