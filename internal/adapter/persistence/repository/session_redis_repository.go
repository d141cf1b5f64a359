package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "paystation:session:"

// SessionRedisRepository keeps sessions as JSON values with a native Redis TTL,
// so expired sessions disappear without a sweeper.
type SessionRedisRepository struct {
	client redis.Cmdable
}

var _ interfaces.ISessionRepository = (*SessionRedisRepository)(nil)

func NewSessionRedisRepository(client redis.Cmdable) *SessionRedisRepository {
	return &SessionRedisRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *SessionRedisRepository) Create(ctx context.Context, s entities.Session) (entities.Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return entities.Session{}, fmt.Errorf("[session] failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), data, ttlUntil(s.ExpiresAt)).Result()
	if err != nil {
		return entities.Session{}, fmt.Errorf("[session] failed to create session: %w", err)
	}
	if !ok {
		return entities.Session{}, fmt.Errorf("[session] session %s already exists", entities.RedactToken(s.ID))
	}
	return s, nil
}

func (r *SessionRedisRepository) GetByID(ctx context.Context, id string) (entities.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.Session{}, nil
	}
	if err != nil {
		return entities.Session{}, fmt.Errorf("[session] failed to get session: %w", err)
	}

	var s entities.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return entities.Session{}, fmt.Errorf("[session] failed to unmarshal session: %w", err)
	}
	return s, nil
}

func (r *SessionRedisRepository) Touch(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error {
	s, err := r.GetByID(ctx, id)
	if err != nil || s.ID == "" {
		return err
	}
	s.LastSeenAt = lastSeenAt
	s.ExpiresAt = expiresAt

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("[session] failed to marshal session: %w", err)
	}
	// XX: never resurrect a key that expired since the read
	err = r.client.SetArgs(ctx, sessionKey(id), data, redis.SetArgs{Mode: "XX", TTL: ttlUntil(expiresAt)}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("[session] failed to touch session: %w", err)
	}
	return nil
}

// ttlUntil never returns 0, which Redis would treat as "no expiry".
func ttlUntil(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
