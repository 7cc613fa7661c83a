package auth

import (
	"context"

	"github.com/dukerupert/recipebox/internal/units"
)

type contextKey struct{}

type AuthContext struct {
	UserID   int64
	Username string
	Units    units.System
	TokenID  string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// Units returns the signed-in user's preferred unit system, or "" when
// there is none.
func Units(ctx context.Context) units.System {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.Units
}
