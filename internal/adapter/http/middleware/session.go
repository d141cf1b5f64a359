package middleware

import (
	"log"
	"net/http"
	"time"

	"paystation_two_party/internal/usecase"
	"paystation_two_party/pkg"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "paystation_session"
	SessionContextKey = "session_id"
)

var errSessionUnavailable = pkg.NewDomainErrorSimple("SESSION_UNAVAILABLE", "Session unavailable", http.StatusServiceUnavailable)

// SessionMiddleware attaches the caller's session id to the gin context under
// SessionContextKey and re-issues the cookie so its lifetime slides with the
// server side expiry.
func SessionMiddleware(sessions usecase.ISessionUseCase, idleTimeout time.Duration) gin.HandlerFunc {
	if idleTimeout <= 0 {
		idleTimeout = usecase.DefaultSessionIdleTimeout
	}
	maxAge := int(idleTimeout / time.Second)

	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookieName)

		session, err := sessions.Resolve(c.Request.Context(), cookie)
		if err != nil {
			log.Printf("[session][middleware] resolve failed path=%s err=%v", c.FullPath(), err)
			c.AbortWithStatusJSON(errSessionUnavailable.HTTPStatus, errSessionUnavailable.ToHTTPError())
			return
		}

		c.Set(SessionContextKey, session.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, session.ID, maxAge, "/", "", c.Request.TLS != nil, true)
		c.Next()
	}
}

// SessionID returns the id set by SessionMiddleware, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}
