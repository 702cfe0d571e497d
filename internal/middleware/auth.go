package middleware

import (
	"context"
	"errors"
	"strings"

	"elearning_backend/internal/config"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextSessionKey = "session"

// SessionResolver checks verified claims against revocations and the current
// account state.
type SessionResolver interface {
	ResolveSession(ctx context.Context, claims *util.Claims) (policy.Session, error)
}

// tokenFromRequest prefers the Authorization header and falls back to the
// session cookie set at login.
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

// AuthMiddleware resolves the bearer token or session cookie into a policy.Session and
// aborts with 401 when there is none.
func AuthMiddleware(cfg *config.Config, resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cfg.JWT.CookieName)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("Rejected session token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		sess, err := resolver.ResolveSession(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, util.ErrUnauthenticated) {
				util.Error(c, 401, err.Error())
			} else {
				util.LogInternalError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Set(contextSessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (policy.Session, bool) {
	v, ok := c.Get(contextSessionKey)
	if !ok {
		return policy.Session{}, false
	}
	sess, ok := v.(policy.Session)
	return sess, ok
}

// RequireAction rejects the request early when the caller's role is never
// granted action. Services still perform the ownership checks.
func RequireAction(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if err := policy.Authorize(sess, action); err != nil {
			util.RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
