package entities

import (
	"strings"
	"time"
)

// Session is a browser session tracked through a cookie.
//
// Its ID is the session token appended to every merchant session id, so two
// browsers never share a transaction id prefix space.
//
// Storage model:
//   - DynamoDB: PK id, TTL attribute expires_at (unix seconds)
//   - Redis: key paystation:session:<id> with native expiry

type Session struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer usable at the given instant.
func (s Session) Expired(at time.Time) bool {
	return !s.ExpiresAt.IsZero() && !at.Before(s.ExpiresAt)
}

const redactKeep = 8

// RedactToken keeps the first characters of a session token for log correlation
// and hides the rest. Tokens too short to keep a prefix are hidden entirely.
func RedactToken(token string) string {
	if len(token) <= redactKeep {
		return strings.Repeat("*", len(token))
	}
	return token[:redactKeep] + "***"
}
