package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scanmart/scanmart/internal/otel"
)

// Store keeps issued token ids in redis so a logout can revoke a token
// before its expiry.
type Store struct {
	cache *redis.Client
}

func NewStore(cache *redis.Client) *Store {
	return &Store{cache: cache}
}

func key(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func (s *Store) Put(c context.Context, jti string, userId string, ttl time.Duration) error {
	c, span := otel.Tracer.Start(c, "Store Put")
	defer span.End()

	err := s.cache.Set(c, key(jti), userId, ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting session=%s to cache with error=%w", jti, err)
		otel.RecordError(err, span)
		return err
	}
	return nil
}

// Get returns the userId bound to jti. A revoked or expired session
// yields redis.Nil.
func (s *Store) Get(c context.Context, jti string) (string, error) {
	c, span := otel.Tracer.Start(c, "Store Get")
	defer span.End()

	userId, err := s.cache.Get(c, key(jti)).Result()
	if err != nil {
		err = fmt.Errorf("failed getting session=%s from cache with error=%w", jti, err)
		otel.RecordError(err, span)
		return "", err
	}
	return userId, nil
}

func (s *Store) Del(c context.Context, jti string) error {
	c, span := otel.Tracer.Start(c, "Store Del")
	defer span.End()

	err := s.cache.Del(c, key(jti)).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting session=%s from cache with error=%w", jti, err)
		otel.RecordError(err, span)
		return err
	}
	return nil
}
