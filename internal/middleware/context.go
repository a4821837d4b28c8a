package middleware

import (
	"context"

	"github.com/mkravets/eduline/internal/models"
)

type contextKey string

const (
	userKey  contextKey = "current_user"
	tokenKey contextKey = "session_token"
	flashKey contextKey = "flash"
)

func WithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func FlashFromContext(ctx context.Context) *Flash {
	flash, _ := ctx.Value(flashKey).(*Flash)
	return flash
}
