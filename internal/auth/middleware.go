package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studentportal/internal/portal"
	"studentportal/internal/session"
)

// Context keys set by SessionAuth.
const (
	SessionIDKey = "session_id"
	ProfileKey   = "profile"
)

// SessionAuth requires a valid session token, taken from the Authorization
// bearer header or, for websocket upgrades, the token query parameter.
func SessionAuth(signingKey, issuer string, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c.GetHeader("Authorization"))
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		profile, err := store.Load(c.Request.Context(), claims.Subject)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("session lookup failed: %v", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(SessionIDKey, claims.Subject)
		c.Set(ProfileKey, profile)
		c.Next()
	}
}

// CurrentProfile returns the profile attached by SessionAuth.
func CurrentProfile(c *gin.Context) (portal.Profile, bool) {
	v, ok := c.Get(ProfileKey)
	if !ok {
		return portal.Profile{}, false
	}
	p, ok := v.(portal.Profile)
	return p, ok
}

func bearer(authz string) string {
	if len(authz) < len("bearer ") || !strings.EqualFold(authz[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("bearer "):])
}
