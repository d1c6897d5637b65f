package ctxkeys

import (
	"context"

	"github.com/keito-ux/advent-calendar/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey    contextKey = "user"
	ProfileKey contextKey = "profile"
)

// User returns the authenticated user captured by the auth middleware
// for this request, or nil for anonymous requests. The snapshot is
// fixed for the lifetime of the request: a save started while signed
// in completes against the identity captured here even if the session
// ends meanwhile.
func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserID returns the authenticated user's id, or "" for anonymous.
func UserID(ctx context.Context) string {
	user := User(ctx)
	if user == nil {
		return ""
	}
	return user.ID
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}
