package userctx

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// WithUserID кладёт ID пользователя в контекст запроса.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserID достаёт ID пользователя из контекста.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}
