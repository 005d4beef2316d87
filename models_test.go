package permkit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAccessPermissionIsValid covers the active and expiry gates, including
// the exact-expiry boundary.
func TestAccessPermissionIsValid(t *testing.T) {
	perm := testPerm("p1", "u1", "reports", ActionRead)
	assert.True(t, perm.IsValid(testEpoch))

	perm.IsActive = false
	assert.False(t, perm.IsValid(testEpoch))

	perm.IsActive = true
	future := testEpoch.Add(time.Hour)
	perm.ExpiresAt = &future
	assert.True(t, perm.IsValid(testEpoch))
	// A permission expiring exactly now is no longer valid.
	assert.False(t, perm.IsValid(future))
	assert.False(t, perm.IsValid(future.Add(time.Second)))
}

func TestAccessPermissionHasAction(t *testing.T) {
	perm := testPerm("p1", "u1", "reports", ActionRead, ActionWrite)
	assert.True(t, perm.HasAction(ActionRead))
	assert.True(t, perm.HasAction(ActionWrite))
	assert.False(t, perm.HasAction(ActionManage))
}

func TestAccessPermissionMatchesResource(t *testing.T) {
	perm := testPerm("p1", "u1", "reports", ActionRead)
	assert.True(t, perm.MatchesResource("reports"))
	assert.False(t, perm.MatchesResource("invoices"))

	perm.Resource = ResourceWildcard
	assert.True(t, perm.MatchesResource("invoices"))
	assert.True(t, perm.MatchesResource("anything"))
}

// TestDelegationIsExpired covers the delegation window boundary: no expiry
// means open-ended, and the exact expiry instant counts as expired.
func TestDelegationIsExpired(t *testing.T) {
	d := Delegation{ID: "d1"}
	assert.False(t, d.IsExpired(testEpoch))

	expires := testEpoch.Add(time.Hour)
	d.ExpiresAt = &expires
	assert.False(t, d.IsExpired(testEpoch))
	assert.True(t, d.IsExpired(expires))
	assert.True(t, d.IsExpired(expires.Add(time.Second)))
}

// TestEffectivePermissionsViews verifies the snapshot-level query helpers.
func TestEffectivePermissionsViews(t *testing.T) {
	expired := testPerm("p3", "u1", "payroll", ActionRead)
	past := testEpoch.Add(-time.Hour)
	expired.ExpiresAt = &past

	set := &EffectivePermissions{
		UserID: "u1",
		Permissions: []AccessPermission{
			testPerm("p1", "u1", "reports", ActionRead),
			testPerm("p2", "u1", ResourceWildcard, ActionManage),
			expired,
		},
		ComputedAt: testEpoch,
	}

	assert.Equal(t, []string{"reports", ResourceWildcard}, set.Resources(testEpoch))
	assert.True(t, set.Allows("reports", ActionRead, testEpoch))
	assert.True(t, set.Allows("invoices", ActionManage, testEpoch))
	assert.False(t, set.Allows("payroll", ActionRead, testEpoch))

	matched := set.ForResource("reports", testEpoch)
	require.Len(t, matched, 2)
	assert.Equal(t, "p1", matched[0].ID)
	assert.Equal(t, "p2", matched[1].ID)
}

// TestConditionValueJSONRoundTrip verifies the typed condition variants keep
// their kind tag through JSON, as the Redis cache relies on.
func TestConditionValueJSONRoundTrip(t *testing.T) {
	in := Conditions{
		"note":      StringCondition("granted during audit"),
		"weight":    NumberCondition(1.5),
		"window":    TimestampCondition(testEpoch),
		"origin_id": IdentifierCondition("d1"),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Conditions
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, ConditionString, out["note"].Kind)
	assert.Equal(t, "granted during audit", out["note"].Str)
	assert.Equal(t, ConditionNumber, out["weight"].Kind)
	assert.Equal(t, 1.5, out["weight"].Num)
	assert.Equal(t, ConditionTimestamp, out["window"].Kind)
	assert.True(t, out["window"].Time.Equal(testEpoch))
	assert.Equal(t, ConditionIdentifier, out["origin_id"].Kind)
	assert.Equal(t, "d1", out["origin_id"].Str)
}
