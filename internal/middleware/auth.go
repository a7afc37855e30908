package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/pkg/response"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// AuthVerifier turns a bearer token into a Principal. Malformed, expired or
// revoked tokens yield an error wrapping apperr.ErrUnauthorized.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// JWTAuth rejects requests without a valid bearer token. WebSocket upgrades
// may pass the token as the access_token query parameter instead, since
// browsers cannot set headers on them.
func JWTAuth(verifier AuthVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, message := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, code, message)
			c.Abort()
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if errors.Is(err, apperr.ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (token, code, message string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if isWebSocketUpgrade(c.Request) {
			if t := c.Query("access_token"); t != "" {
				return t, "", ""
			}
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
	}
	return strings.TrimSpace(parts[1]), "", ""
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// GetPrincipal returns the caller set by JWTAuth.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
