package middlewares

import "context"

const userIDKey ctxKey = 1

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// ActorFrom names the caller for log lines.
func ActorFrom(ctx context.Context) string {
	if id, ok := UserIDFrom(ctx); ok {
		return "user:" + id
	}
	return "anonymous"
}
