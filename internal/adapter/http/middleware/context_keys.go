package middleware

import "context"

// ContextKey is a private type for request-context keys to avoid collisions.
type ContextKey string

const (
	// UserIDCtxKey holds the authenticated caller's uid.
	UserIDCtxKey = ContextKey("user_id")
	// UserEmailCtxKey holds the authenticated caller's email.
	UserEmailCtxKey = ContextKey("user_email")
	// UserRoleCtxKey holds the authenticated caller's role claim.
	UserRoleCtxKey = ContextKey("user_role")
)

// CallerID returns the authenticated uid, or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}

// CallerEmail returns the authenticated email, or "".
func CallerEmail(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailCtxKey).(string)
	return email
}

// IsAdmin reports whether the request carries the administrative claim.
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(UserRoleCtxKey).(string)
	return role == "admin"
}
