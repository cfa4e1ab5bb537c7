package auth

import "context"

type userIDContextKey struct{}

// SetUserID stores the ID of the authenticated user in the request
// context; done by the auth middleware only.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the ID of the authenticated user, as set
// by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
