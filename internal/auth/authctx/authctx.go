// Package authctx carries the authenticated identity through a request.
package authctx

import (
	"context"

	authdomain "caspometer-backend/internal/auth/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	identityKey = "identity"
)

type ctxKey struct{}

// Set attaches id to both the gin context and the request context so that
// handlers and anything downstream of c.Request.Context() can read it.
func Set(c *gin.Context, id *authdomain.Identity) {
	c.Set(userIDKey, id.ID)
	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Identity(c *gin.Context) (*authdomain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*authdomain.Identity)
	return id, ok
}

func WithIdentity(ctx context.Context, id *authdomain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*authdomain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*authdomain.Identity)
	return id, ok
}
