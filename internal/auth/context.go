package auth

import "context"

type contextKey string

const (
	contextKeyUserGUID contextKey = "auth.user_guid"
	contextKeyEmail    contextKey = "auth.email"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, userGUID, email string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserGUID, userGUID)
	ctx = context.WithValue(ctx, contextKeyEmail, email)
	return ctx
}

// UserGUIDFromContext extracts the user guid from context.
func UserGUIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userGUID, ok := ctx.Value(contextKeyUserGUID).(string); ok {
		return userGUID
	}
	return ""
}

// EmailFromContext extracts the user email from context.
func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(contextKeyEmail).(string); ok {
		return email
	}
	return ""
}
