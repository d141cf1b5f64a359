package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// DefaultSessionIdleTimeout is how long a session survives without requests.
const DefaultSessionIdleTimeout = 20 * time.Minute

var ErrSessionRepositoryNotConfigured = errors.New("session repository not configured")

// ISessionUseCase hands out the session token used to build merchant session ids.
//
// Resolve returns the live session for id, sliding its expiry, or starts a new
// session when id is empty, unknown or expired.

type ISessionUseCase interface {
	Resolve(ctx context.Context, id string) (entities.Session, error)
}

type SessionUseCase struct {
	repo        interfaces.ISessionRepository
	idleTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

var _ ISessionUseCase = (*SessionUseCase)(nil)

func NewSessionUseCase(repo interfaces.ISessionRepository, idleTimeout time.Duration) *SessionUseCase {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionUseCase{
		repo:        repo,
		idleTimeout: idleTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (u *SessionUseCase) Resolve(ctx context.Context, id string) (entities.Session, error) {
	if u.repo == nil {
		return entities.Session{}, ErrSessionRepositoryNotConfigured
	}
	now := u.now().UTC()
	expiresAt := now.Add(u.idleTimeout)

	// ids we never issued (empty, tampered cookies) skip the lookup
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err == nil {
		s, err := u.repo.GetByID(ctx, id)
		if err != nil {
			log.Printf("[session][usecase] lookup failed session=%s err=%v", entities.RedactToken(id), err)
			return entities.Session{}, err
		}
		if s.ID != "" && !s.Expired(now) {
			if err := u.repo.Touch(ctx, s.ID, now, expiresAt); err != nil {
				log.Printf("[session][usecase] touch failed session=%s err=%v", entities.RedactToken(id), err)
				return entities.Session{}, err
			}
			s.LastSeenAt = now
			s.ExpiresAt = expiresAt
			return s, nil
		}
		log.Printf("[session][usecase] session unknown or expired session=%s", entities.RedactToken(id))
	}

	s := entities.Session{
		ID:         u.newID(),
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  expiresAt,
	}
	created, err := u.repo.Create(ctx, s)
	if err != nil {
		log.Printf("[session][usecase] create failed err=%v", err)
		return entities.Session{}, err
	}
	log.Printf("[session][usecase] session started session=%s expires_at=%s", entities.RedactToken(created.ID), created.ExpiresAt.Format(time.RFC3339))
	return created, nil
}
