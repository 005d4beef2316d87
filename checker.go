package permkit

import (
	"context"
)

// Checker answers permission questions for one user from a resolved
// snapshot. It is typically created by the Service and stored in context for
// use in request handlers, avoiding repeated service round-trips.
type Checker struct {
	userID string
	set    *EffectivePermissions
	clock  Clock
}

// NewChecker creates a Checker over a resolved permission set.
func NewChecker(userID string, set *EffectivePermissions, clock Clock) *Checker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Checker{userID: userID, set: set, clock: clock}
}

// GetChecker resolves a user's effective permissions and wraps them in a
// Checker. The snapshot reflects the permissions at resolution time; it does
// not refresh itself.
func (s *Service) GetChecker(ctx context.Context, userID string) *Checker {
	set := &EffectivePermissions{
		UserID:      userID,
		Permissions: s.GetEffectivePermissions(ctx, userID),
		ComputedAt:  s.clock.Now(),
	}
	return NewChecker(userID, set, s.clock)
}

// GetCheckerFromContext creates a Checker for the user id stored in context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, userID), nil
}

// UserID returns the user this checker answers for.
func (c *Checker) UserID() string {
	return c.userID
}

// Allows checks if the user holds an action over a resource.
//
// Example:
//
//	if checker.Allows("reports", permkit.ActionRead) {
//	    // user can read reports
//	}
func (c *Checker) Allows(resource string, action Action) bool {
	return c.set.Allows(resource, action, c.clock.Now())
}

// AllowsAny checks if the user holds at least one of the actions over a
// resource.
func (c *Checker) AllowsAny(resource string, actions []Action) bool {
	for _, action := range actions {
		if c.Allows(resource, action) {
			return true
		}
	}
	return false
}

// AllowsAll checks if the user holds every one of the actions over a
// resource.
func (c *Checker) AllowsAll(resource string, actions []Action) bool {
	for _, action := range actions {
		if !c.Allows(resource, action) {
			return false
		}
	}
	return true
}

// Resources returns the distinct resources the user currently holds valid
// permissions for.
func (c *Checker) Resources() []string {
	return c.set.Resources(c.clock.Now())
}

// ForResource returns the currently valid permissions covering a resource.
func (c *Checker) ForResource(resource string) []AccessPermission {
	return c.set.ForResource(resource, c.clock.Now())
}

// IsEmpty returns true if the snapshot holds no permissions at all. Note
// that an empty snapshot can also mean the resolution failed; see
// Service.GetEffectivePermissions.
func (c *Checker) IsEmpty() bool {
	return len(c.set.Permissions) == 0
}
