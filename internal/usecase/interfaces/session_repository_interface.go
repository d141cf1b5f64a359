package interfaces

//go:generate mockgen -source=session_repository_interface.go -destination=mocks/session_repository_interface_mock.go -package=mock_interfaces

import (
	"context"
	"time"

	"paystation_two_party/internal/domain/entities"
)

// ISessionRepository abstracts session persistence (DynamoDB or Redis).
//
// GetByID returns a zero Session and a nil error when the id is unknown or expired.

type ISessionRepository interface {
	Create(ctx context.Context, s entities.Session) (entities.Session, error)
	GetByID(ctx context.Context, id string) (entities.Session, error)
	Touch(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error
}
