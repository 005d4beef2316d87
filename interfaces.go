package permkit

import (
	"context"
	"time"
)

// Store is the read-only gateway to the data that permissions are resolved
// from. Implementations may return an error wrapping ErrNotFound for missing
// records; the engine treats not-found and transport failures alike as "this
// source contributes nothing".
type Store interface {
	// GetUserProfile returns the profile for a user.
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)

	// GetUserPermissions returns the permissions granted directly to a user
	// (not through roles, delegations, or guardianship).
	GetUserPermissions(ctx context.Context, userID string) ([]AccessPermission, error)

	// GetUserRole returns a single role by id, including its permissions.
	GetUserRole(ctx context.Context, roleID string) (*Role, error)

	// GetUserRoles returns the roles assigned to a user, including their
	// permissions.
	GetUserRoles(ctx context.Context, userID string) ([]Role, error)

	// GetDelegationsToUser returns all delegations addressed to a user,
	// regardless of activity or expiry.
	GetDelegationsToUser(ctx context.Context, userID string) ([]Delegation, error)
}

// Cache memoizes merged permission sets per user. Entries are valid for a
// bounded time from the moment they were stored; a stale entry is a miss.
// Implementations must be safe for concurrent use, but need not serialize
// population: two concurrent misses for the same user may both compute and
// both store.
type Cache interface {
	// Get returns the cached set for a user, or false on miss or staleness.
	Get(ctx context.Context, userID string) (*EffectivePermissions, bool)

	// Put stores the set for a user, replacing any previous entry.
	Put(ctx context.Context, userID string, set *EffectivePermissions)

	// Invalidate removes a single user's entry unconditionally.
	Invalidate(ctx context.Context, userID string)

	// InvalidateAll removes every entry unconditionally.
	InvalidateAll(ctx context.Context)
}

// Clock supplies the current time. Inject a fake clock in tests to exercise
// expiry and cache staleness deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
