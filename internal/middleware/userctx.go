package middleware

import (
	"context"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

type userKey struct{}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the authenticated user, or the zero (anonymous) user.
func UserFrom(ctx context.Context) models.User {
	if u, ok := ctx.Value(userKey{}).(models.User); ok {
		return u
	}
	return models.User{}
}
