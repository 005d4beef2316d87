package permkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserIDContextRoundTrip verifies user ids survive the context round trip.
func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetUserID(ctx))

	ctx = WithUserID(ctx, "u1")
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "u1", MustGetUserID(ctx))
}

// TestMustGetUserIDPanics verifies the panic on a bare context.
func TestMustGetUserIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustGetUserID(context.Background())
	})
}

// TestCheckerContextRoundTrip verifies checkers survive the context round
// trip and that FromContext is an alias for GetChecker.
func TestCheckerContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetChecker(ctx))
	assert.Nil(t, FromContext(ctx))

	checker := NewChecker("u1", &EffectivePermissions{UserID: "u1"}, nil)
	ctx = WithChecker(ctx, checker)

	got := GetChecker(ctx)
	require.NotNil(t, got)
	assert.Same(t, checker, got)
	assert.Same(t, checker, FromContext(ctx))
}
