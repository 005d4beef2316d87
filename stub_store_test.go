package permkit

import (
	"context"
	"sync"
	"time"
)

// stubStore wraps another Store with per-method fault injection and call
// counting, so tests can assert on gateway traffic and degraded paths.
type stubStore struct {
	inner Store

	mu    sync.Mutex
	calls map[string]int

	profileErr     error
	permissionsErr error
	roleErr        error
	rolesErr       error
	delegationsErr error
}

func newStubStore(inner Store) *stubStore {
	return &stubStore{inner: inner, calls: make(map[string]int)}
}

func (s *stubStore) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *stubStore) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubStore) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *stubStore) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	s.record("GetUserProfile")
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.inner.GetUserProfile(ctx, userID)
}

func (s *stubStore) GetUserPermissions(ctx context.Context, userID string) ([]AccessPermission, error) {
	s.record("GetUserPermissions")
	if s.permissionsErr != nil {
		return nil, s.permissionsErr
	}
	return s.inner.GetUserPermissions(ctx, userID)
}

func (s *stubStore) GetUserRole(ctx context.Context, roleID string) (*Role, error) {
	s.record("GetUserRole")
	if s.roleErr != nil {
		return nil, s.roleErr
	}
	return s.inner.GetUserRole(ctx, roleID)
}

func (s *stubStore) GetUserRoles(ctx context.Context, userID string) ([]Role, error) {
	s.record("GetUserRoles")
	if s.rolesErr != nil {
		return nil, s.rolesErr
	}
	return s.inner.GetUserRoles(ctx, userID)
}

func (s *stubStore) GetDelegationsToUser(ctx context.Context, userID string) ([]Delegation, error) {
	s.record("GetDelegationsToUser")
	if s.delegationsErr != nil {
		return nil, s.delegationsErr
	}
	return s.inner.GetDelegationsToUser(ctx, userID)
}

// testPerm builds an active permission record with sensible defaults.
func testPerm(id, userID, resource string, actions ...Action) AccessPermission {
	return AccessPermission{
		ID:        id,
		UserID:    userID,
		Resource:  resource,
		Actions:   actions,
		GrantedBy: "admin",
		GrantedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

// testRolePerm builds an active role-granted permission record.
func testRolePerm(id, roleID, resource string, actions ...Action) AccessPermission {
	p := testPerm(id, "", resource, actions...)
	p.RoleID = roleID
	p.GrantedBy = "system"
	return p
}

// newTestService builds a service over the given store with a manual clock
// and the default in-memory cache.
func newTestService(store Store, clock Clock) *Service {
	return NewService(store, WithClock(clock))
}

var testEpoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
