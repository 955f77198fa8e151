package web

import (
	"context"

	"loan-broker/internal/models"
)

type userKey struct{}

func withUser(ctx context.Context, u *models.CurrentUser) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the signed-in user, or nil for visitors.
func UserFrom(ctx context.Context) *models.CurrentUser {
	u, _ := ctx.Value(userKey{}).(*models.CurrentUser)
	return u
}
