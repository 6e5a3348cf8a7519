package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/auth"
	"github.com/open-gym/backend/internal/domain/user"
)

// Keep this small interface so tests can fake it easily.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (user.User, error)
}

type AuthMiddleware struct {
	resolver UserResolver
}

func NewAuthMiddleware(resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth extracts a bearer token and resolves it to a user. A missing
// token is reported as invalid_credentials, same as a failed login, while a
// present-but-bad token is invalid_token. Clients relying on the error code
// to decide between re-login and token refresh depend on this asymmetry.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)

		if raw == "" {
			abortEnvelope(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials provided.")
			return
		}

		u, err := m.resolver.ResolveUser(c.Request.Context(), raw)

		if err != nil {
			status, code, description := resolveErrorMapping(err)
			abortEnvelope(c, status, code, description)
			return
		}

		c.Set(CtxUser, u)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
}

// resolveErrorMapping is the single place where ResolveUser failure kinds
// become wire statuses and codes.
func resolveErrorMapping(err error) (int, string, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "You are not authorized to access this resource."
	case errors.Is(err, auth.ErrUserInactive):
		return http.StatusUnauthorized, "jwt_user_inactive", "Your account is inactive."
	case errors.Is(err, auth.ErrUnknownUser):
		return http.StatusInternalServerError, "jwt_unknown_error", "An unknown error occurred while processing the token."
	default:
		return http.StatusInternalServerError, "internal_server_error", "Internal server error"
	}
}

func abortEnvelope(c *gin.Context, status int, code, description string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code": -1,
		"data": gin.H{
			"code":        code,
			"description": description,
		},
	})
}

// UserFromContext returns the resolved user stashed by RequireAuth.
func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}

	u, ok := v.(user.User)
	return u, ok
}
