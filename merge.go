package permkit

import (
	"time"

	"github.com/google/uuid"
)

// MergePermissions reconciles overlapping permission records into exactly one
// record per distinct resource.
//
// Records failing the validity check (inactive, or expired relative to now)
// are discarded first. Remaining records are grouped by resource in
// first-seen order. A singleton group passes through unchanged. A larger
// group collapses into a fresh record:
//
//   - Actions are the set union across the group.
//   - Conditions are folded in input order; a later record's value wins on a
//     key collision.
//   - ExpiresAt is the earliest non-nil expiry in the group — the most
//     restrictive bound. It stays nil only when no member expires.
//   - GrantedBy and GrantedAt come from the most recent grant; ties keep the
//     earliest record in input order.
//
// Action union and the expiry minimum are independent of input ordering;
// condition collisions and the GrantedBy tie-break are deliberately
// order-sensitive, so callers must feed records in collection order.
func MergePermissions(records []AccessPermission, now time.Time) []AccessPermission {
	var valid []AccessPermission
	for i := range records {
		if records[i].IsValid(now) {
			valid = append(valid, records[i])
		}
	}

	var resources []string
	groups := make(map[string][]AccessPermission)
	for i := range valid {
		r := valid[i].Resource
		if _, ok := groups[r]; !ok {
			resources = append(resources, r)
		}
		groups[r] = append(groups[r], valid[i])
	}

	merged := make([]AccessPermission, 0, len(resources))
	for _, resource := range resources {
		group := groups[resource]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		merged = append(merged, mergeGroup(resource, group, now))
	}
	return merged
}

func mergeGroup(resource string, group []AccessPermission, now time.Time) AccessPermission {
	var actions []Action
	seen := make(map[Action]struct{})
	conditions := make(Conditions)
	var expiresAt *time.Time
	latest := &group[0]

	for i := range group {
		r := &group[i]
		for _, a := range r.Actions {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				actions = append(actions, a)
			}
		}
		for k, v := range r.Conditions {
			conditions[k] = v
		}
		if r.ExpiresAt != nil && (expiresAt == nil || r.ExpiresAt.Before(*expiresAt)) {
			t := *r.ExpiresAt
			expiresAt = &t
		}
		if r.GrantedAt.After(latest.GrantedAt) {
			latest = r
		}
	}

	return AccessPermission{
		ID:         uuid.NewString(),
		UserID:     group[0].UserID,
		Resource:   resource,
		Actions:    actions,
		GrantedBy:  latest.GrantedBy,
		GrantedAt:  latest.GrantedAt,
		ExpiresAt:  expiresAt,
		IsActive:   true,
		Reason:     "Merged permissions for " + resource,
		Conditions: conditions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
