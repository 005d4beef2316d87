package permkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHasPermissionExactMatch verifies the basic grant and deny paths.
func TestHasPermissionExactMatch(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionRead))

	service := newTestService(store, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.True(t, service.HasPermission(ctx, "u1", "reports", ActionRead))
	assert.False(t, service.HasPermission(ctx, "u1", "reports", ActionWrite))
	assert.False(t, service.HasPermission(ctx, "u1", "invoices", ActionRead))
}

// TestHasPermissionWildcard verifies a "*" grant covers every resource while
// still gating on the action.
func TestHasPermissionWildcard(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "admin"})
	store.AddPermission(testPerm("p1", "admin", ResourceWildcard, ActionRead, ActionManage))

	service := newTestService(store, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.True(t, service.HasPermission(ctx, "admin", "reports", ActionRead))
	assert.True(t, service.HasPermission(ctx, "admin", "anything-at-all", ActionManage))
	assert.False(t, service.HasPermission(ctx, "admin", "reports", ActionWrite))
}

// TestHasPermissionExpiryWhileCached verifies expiry is enforced at query
// time: a permission that lapses inside the cache TTL stops matching without
// waiting for the cache to turn over.
func TestHasPermissionExpiryWhileCached(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})

	expires := testEpoch.Add(5 * time.Minute)
	perm := testPerm("p1", "u1", "reports", ActionRead)
	perm.ExpiresAt = &expires
	store.AddPermission(perm)

	stub := newStubStore(store)
	clock := NewManualClock(testEpoch)
	service := newTestService(stub, clock)
	ctx := context.Background()

	assert.True(t, service.HasPermission(ctx, "u1", "reports", ActionRead))

	// Ten minutes in: cache entry still fresh, permission no longer valid.
	clock.Advance(10 * time.Minute)
	assert.False(t, service.HasPermission(ctx, "u1", "reports", ActionRead))
	assert.Equal(t, 1, stub.callCount("GetUserProfile"))
}

// TestHasAnyPermission verifies the one-of-many check.
func TestHasAnyPermission(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionRead))

	service := newTestService(store, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.True(t, service.HasAnyPermission(ctx, "u1", "reports", []Action{ActionManage, ActionRead}))
	assert.False(t, service.HasAnyPermission(ctx, "u1", "reports", []Action{ActionManage, ActionWrite}))
	assert.False(t, service.HasAnyPermission(ctx, "u1", "reports", nil))
}

// TestHasAllPermissions verifies the all-of-many check, including the vacuous
// empty list.
func TestHasAllPermissions(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionRead, ActionWrite))

	service := newTestService(store, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.True(t, service.HasAllPermissions(ctx, "u1", "reports", []Action{ActionRead, ActionWrite}))
	assert.False(t, service.HasAllPermissions(ctx, "u1", "reports", []Action{ActionRead, ActionManage}))
	assert.True(t, service.HasAllPermissions(ctx, "u1", "reports", nil))
}

// TestGetAccessibleResources verifies the resource listing is distinct, in
// first-seen order, and excludes lapsed grants.
func TestGetAccessibleResources(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionRead))
	store.AddPermission(testPerm("p2", "u1", "invoices", ActionRead))

	expired := testPerm("p3", "u1", "payroll", ActionRead)
	past := testEpoch.Add(-time.Hour)
	expired.ExpiresAt = &past
	store.AddPermission(expired)

	service := newTestService(store, NewManualClock(testEpoch))
	resources := service.GetAccessibleResources(context.Background(), "u1")

	assert.Equal(t, []string{"reports", "invoices"}, resources)
}

// TestGetResourcePermissionsIncludesWildcard verifies a resource query picks
// up both the exact and the wildcard record.
func TestGetResourcePermissionsIncludesWildcard(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionWrite))
	store.AddPermission(testPerm("p2", "u1", ResourceWildcard, ActionRead))

	service := newTestService(store, NewManualClock(testEpoch))
	perms := service.GetResourcePermissions(context.Background(), "u1", "reports")

	require.Len(t, perms, 2)
	assert.ElementsMatch(t, []string{"reports", ResourceWildcard},
		[]string{perms[0].Resource, perms[1].Resource})
}

// TestQueriesFailClosedOnUnknownUser verifies every query surface denies and
// returns empty for a user the store does not know.
func TestQueriesFailClosedOnUnknownUser(t *testing.T) {
	store := NewMemoryStore()
	service := newTestService(store, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.False(t, service.HasPermission(ctx, "ghost", "reports", ActionRead))
	assert.Empty(t, service.GetAccessibleResources(ctx, "ghost"))
	assert.Empty(t, service.GetResourcePermissions(ctx, "ghost", "reports"))
	assert.Empty(t, service.GetEffectivePermissions(ctx, "ghost"))
}

// TestQueriesFailClosedOnStoreFailure verifies a broken store denies rather
// than erroring out of the boolean surface.
func TestQueriesFailClosedOnStoreFailure(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(UserProfile{ID: "u1"})
	store.AddPermission(testPerm("p1", "u1", "reports", ActionRead))

	stub := newStubStore(store)
	stub.profileErr = NewError(ErrStoreFailure, "connection refused")

	service := newTestService(stub, NewManualClock(testEpoch))
	ctx := context.Background()

	assert.False(t, service.HasPermission(ctx, "u1", "reports", ActionRead))
	assert.Empty(t, service.GetAccessibleResources(ctx, "u1"))
}

// TestGetEffectivePermissionsMergesAllSources is the full pipeline check:
// direct grants, inherited role grants, a delegation, and a guardian
// relationship resolve into one merged record per resource.
func TestGetEffectivePermissionsMergesAllSources(t *testing.T) {
	store := NewMemoryStore()
	clock := NewManualClock(testEpoch)

	store.PutRole(Role{
		ID: "editor", Name: "Editor", IsActive: true,
		ParentRoleIDs: []string{"viewer"},
		Permissions:   []AccessPermission{testRolePerm("pe", "editor", "reports", ActionWrite)},
	})
	store.PutRole(Role{
		ID: "viewer", Name: "Viewer", IsActive: true,
		Permissions: []AccessPermission{testRolePerm("pv", "viewer", "reports", ActionRead)},
	})
	store.PutRole(Role{ID: "guardian", Name: "Guardian", IsActive: true})
	store.PutProfile(UserProfile{ID: "gina", RoleIDs: []string{"guardian"}})
	store.PutProfile(UserProfile{
		ID:           "milo",
		RoleIDs:      []string{"editor"},
		IsMinor:      true,
		HasGuardians: true,
		GuardianIDs:  []string{"gina"},
	})
	store.AddPermission(testPerm("pd", "milo", "billing", ActionRead))
	store.AddDelegation(Delegation{
		ID:              "d1",
		FromUserID:      "alice",
		ToUserID:        "milo",
		DelegatedRights: []string{"invoices"},
		IsActive:        true,
		CreatedAt:       testEpoch.Add(-time.Hour),
	})

	service := newTestService(store, clock)
	ctx := context.Background()

	resources := service.GetAccessibleResources(ctx, "milo")
	assert.ElementsMatch(t, []string{
		"billing", "reports", "invoices",
		ResourceDependentUserData, ResourceConsentManagement,
	}, resources)

	// Direct and inherited grants over "reports" collapsed to one record with
	// the union of actions.
	reports := service.GetResourcePermissions(ctx, "milo", "reports")
	require.Len(t, reports, 1)
	assert.ElementsMatch(t, []Action{ActionWrite, ActionRead}, reports[0].Actions)

	assert.True(t, service.HasAllPermissions(ctx, "milo", "reports", []Action{ActionRead, ActionWrite}))
	assert.True(t, service.HasPermission(ctx, "milo", "invoices", ActionRead))
	assert.True(t, service.HasPermission(ctx, "milo", ResourceDependentUserData, ActionGuardianAccess))
}
