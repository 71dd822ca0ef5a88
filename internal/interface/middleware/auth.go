package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// TokenResolver maps an access token to the account it was issued for.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (*entity.User, error)
}

// bearerToken reads the Authorization header, falling back to the access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, _ := c.Cookie(helpers.AccessCookie)
	return token
}

func attach(c *gin.Context, u *entity.User) {
	c.Set(CtxUserKey, u)
	c.Set(CtxUserIDKey, u.ID)
}

// Authenticate rejects requests without a valid, live access token.
func Authenticate(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			return
		}
		u, err := resolver.ResolveAccessToken(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Token is not valid", nil)
			return
		}
		attach(c, u)
		c.Next()
	}
}

// OptionalAuth attaches the user when the token resolves and continues either way.
func OptionalAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if u, err := resolver.ResolveAccessToken(c.Request.Context(), token); err == nil {
				attach(c, u)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// CurrentUserID returns the authenticated user's id, or "".
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
