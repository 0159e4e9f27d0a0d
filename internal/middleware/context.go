package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// AnonymousRole is the subject used for requests carrying no identity.
const AnonymousRole = "anonymous"

// UserInfo represents the authenticated identity stored in the request context.
type UserInfo struct {
	Username string
	Role     string
}

// GetUserInfo retrieves the user information from the request context.
// Returns an anonymous identity if none was set.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	return &UserInfo{Role: AnonymousRole}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
