package permkit

import (
	"time"

	"github.com/uptrace/bun"
)

// ResourceWildcard matches any resource in a permission check.
const ResourceWildcard = "*"

// Resources synthesized for guardian grants over a dependent user.
const (
	ResourceDependentUserData = "dependent_user_data"
	ResourceConsentManagement = "consent_management"
)

// GuardianRoleID is the role id that always qualifies as a guardian role.
// A role also qualifies if its name contains "guardian" (case-insensitive).
const GuardianRoleID = "guardian"

// SystemGrantor is the GrantedBy value for permissions synthesized by the
// engine itself (e.g. guardian grants) rather than granted by another user.
const SystemGrantor = "system"

// Action is a discrete capability a permission grants over a resource.
type Action string

const (
	ActionRead           Action = "read"
	ActionWrite          Action = "write"
	ActionManage         Action = "manage"
	ActionGuardianAccess Action = "guardian_access"
	ActionBasicAccess    Action = "basic_access"
)

// ConditionKind discriminates the variants of a ConditionValue.
type ConditionKind string

const (
	ConditionString     ConditionKind = "string"
	ConditionNumber     ConditionKind = "number"
	ConditionTimestamp  ConditionKind = "timestamp"
	ConditionIdentifier ConditionKind = "identifier"
)

// ConditionValue is a typed condition entry. Conditions carry provenance and
// audit metadata on a permission; they are never consulted by access checks.
type ConditionValue struct {
	Kind ConditionKind `json:"kind"`
	Str  string        `json:"str,omitempty"`
	Num  float64       `json:"num,omitempty"`
	Time time.Time     `json:"time,omitzero"`
}

// StringCondition creates a string-valued condition.
func StringCondition(s string) ConditionValue {
	return ConditionValue{Kind: ConditionString, Str: s}
}

// NumberCondition creates a numeric condition.
func NumberCondition(n float64) ConditionValue {
	return ConditionValue{Kind: ConditionNumber, Num: n}
}

// TimestampCondition creates a timestamp condition.
func TimestampCondition(t time.Time) ConditionValue {
	return ConditionValue{Kind: ConditionTimestamp, Time: t}
}

// IdentifierCondition creates a condition referencing another entity by id.
func IdentifierCondition(id string) ConditionValue {
	return ConditionValue{Kind: ConditionIdentifier, Str: id}
}

// Conditions maps condition names to typed values.
type Conditions map[string]ConditionValue

// UserProfile is the identity record the engine resolves permissions for.
// Owned by the store gateway; read-only from this package.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	ID           string    `bun:"id,pk" json:"id"`
	RoleIDs      []string  `bun:"role_ids,type:text[]" json:"role_ids"`
	IsMinor      bool      `bun:"is_minor" json:"is_minor"`
	GuardianIDs  []string  `bun:"guardian_ids,type:text[]" json:"guardian_ids"`
	HasGuardians bool      `bun:"has_guardians" json:"has_guardians"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Role is a named set of permissions. Roles form a directed graph through
// ParentRoleIDs; the graph may contain cycles and is traversed defensively.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID            string             `bun:"id,pk" json:"id"`
	Name          string             `bun:"name,notnull" json:"name"`
	IsActive      bool               `bun:"is_active" json:"is_active"`
	ParentRoleIDs []string           `bun:"parent_role_ids,type:text[]" json:"parent_role_ids"`
	Permissions   []AccessPermission `bun:"rel:has-many,join:id=role_id" json:"permissions"`
	CreatedAt     time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// AccessPermission grants a set of actions over one resource. Records come
// from four sources: direct grants, role inheritance, delegations, and
// guardian relationships. The merger reconciles them into one record per
// resource.
type AccessPermission struct {
	bun.BaseModel `bun:"table:access_permissions,alias:ap"`

	ID         string     `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID     string     `bun:"user_id" json:"user_id"`
	RoleID     string     `bun:"role_id" json:"role_id,omitempty"`
	Resource   string     `bun:"resource,notnull" json:"resource"`
	Actions    []Action   `bun:"actions,type:text[]" json:"actions"`
	GrantedBy  string     `bun:"granted_by" json:"granted_by"`
	GrantedAt  time.Time  `bun:"granted_at" json:"granted_at"`
	ExpiresAt  *time.Time `bun:"expires_at" json:"expires_at,omitempty"`
	IsActive   bool       `bun:"is_active" json:"is_active"`
	Reason     string     `bun:"reason" json:"reason"`
	Conditions Conditions `bun:"conditions,type:jsonb" json:"conditions,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// IsValid reports whether the permission is active and not past its expiry.
func (p *AccessPermission) IsValid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

// HasAction reports whether the permission grants the given action.
func (p *AccessPermission) HasAction(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// MatchesResource reports whether the permission covers the given resource,
// either exactly or through the wildcard resource.
func (p *AccessPermission) MatchesResource(resource string) bool {
	return p.Resource == resource || p.Resource == ResourceWildcard
}

// Delegation is a time-bounded grant of specific resources from one user to
// another.
type Delegation struct {
	bun.BaseModel `bun:"table:delegations,alias:d"`

	ID              string     `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	FromUserID      string     `bun:"from_user_id,notnull" json:"from_user_id"`
	ToUserID        string     `bun:"to_user_id,notnull" json:"to_user_id"`
	DelegatedRights []string   `bun:"delegated_rights,type:text[]" json:"delegated_rights"`
	IsActive        bool       `bun:"is_active" json:"is_active"`
	ExpiresAt       *time.Time `bun:"expires_at" json:"expires_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// IsExpired reports whether the delegation window has closed.
func (d *Delegation) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && !d.ExpiresAt.After(now)
}

// EffectivePermissions is the merged permission set for one user: one record
// per distinct resource. It is produced on cache miss and owned by the cache
// until invalidated or expired.
type EffectivePermissions struct {
	UserID      string             `json:"user_id"`
	Permissions []AccessPermission `json:"permissions"`
	ComputedAt  time.Time          `json:"computed_at"`
}

// ForResource returns the currently valid permissions covering a resource,
// including wildcard grants.
func (e *EffectivePermissions) ForResource(resource string, now time.Time) []AccessPermission {
	var matched []AccessPermission
	for i := range e.Permissions {
		p := &e.Permissions[i]
		if p.IsValid(now) && p.MatchesResource(resource) {
			matched = append(matched, *p)
		}
	}
	return matched
}

// Resources returns the distinct resource identifiers of the currently valid
// permissions, in first-seen order.
func (e *EffectivePermissions) Resources(now time.Time) []string {
	seen := make(map[string]bool)
	var resources []string
	for i := range e.Permissions {
		p := &e.Permissions[i]
		if !p.IsValid(now) || seen[p.Resource] {
			continue
		}
		seen[p.Resource] = true
		resources = append(resources, p.Resource)
	}
	return resources
}

// Allows reports whether some currently valid permission covers the resource
// and grants the action.
func (e *EffectivePermissions) Allows(resource string, action Action, now time.Time) bool {
	for i := range e.Permissions {
		p := &e.Permissions[i]
		if p.IsValid(now) && p.MatchesResource(resource) && p.HasAction(action) {
			return true
		}
	}
	return false
}
