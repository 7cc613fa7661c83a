package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/recipebox/internal/units"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:   1,
		Username: "alice",
		Units:    units.Metric,
		TokenID:  "abc",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got != ac {
		t.Errorf("AuthContext = %+v, want %+v", got, ac)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 7})
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestUnits(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Units: units.Imperial})
	if Units(ctx) != units.Imperial {
		t.Errorf("Units = %q, want %q", Units(ctx), units.Imperial)
	}
	if Units(context.Background()) != "" {
		t.Error("expected empty units for missing context")
	}
}
