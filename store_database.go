package permkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// DatabaseStore is a Store backed by PostgreSQL through dbkit. It owns no
// data lifecycle: records are created and mutated elsewhere, this store only
// reads them.
//
// All queries use dbkit's chainable error wrapping, so failures carry the
// operation name and preserve the original error for classification. Missing
// records are mapped to ErrNotFound.
type DatabaseStore struct {
	db dbkit.IDB
}

// NewDatabaseStore creates a DatabaseStore over an existing dbkit connection.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	store := permkit.NewDatabaseStore(db)
//	service := permkit.NewService(store)
func NewDatabaseStore(db dbkit.IDB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// GetUserProfile returns the profile for a user.
func (s *DatabaseStore) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	err := dbkit.WithErr1(s.db.NewSelect().Model(&profile).Where("id = ?", userID).Limit(1).Scan(ctx), "GetUserProfile").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "user profile").WithUser(userID)
		}
		return nil, err
	}
	return &profile, nil
}

// GetUserPermissions returns the permissions granted directly to a user.
// Role-granted permissions carry a role id and are excluded here; they enter
// the resolution through the role hierarchy instead.
func (s *DatabaseStore) GetUserPermissions(ctx context.Context, userID string) ([]AccessPermission, error) {
	var permissions []AccessPermission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&permissions).Where("user_id = ?", userID).Where("role_id IS NULL OR role_id = ''").Scan(ctx), "GetUserPermissions").Err()
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// GetUserRole returns a single role by id, including its permissions.
func (s *DatabaseStore) GetUserRole(ctx context.Context, roleID string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Relation("Permissions").Where("r.id = ?", roleID).Limit(1).Scan(ctx), "GetUserRole").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "role").WithRole(roleID)
		}
		return nil, err
	}
	return &role, nil
}

// GetUserRoles returns the roles assigned to a user, including their
// permissions. Role ids on the profile that no longer exist are skipped.
func (s *DatabaseStore) GetUserRoles(ctx context.Context, userID string) ([]Role, error) {
	profile, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.RoleIDs) == 0 {
		return nil, nil
	}

	var roles []Role
	err = dbkit.WithErr1(s.db.NewSelect().Model(&roles).Relation("Permissions").Where("r.id IN (?)", bun.In(profile.RoleIDs)).Scan(ctx), "GetUserRoles").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetDelegationsToUser returns all delegations addressed to a user. Activity
// and expiry filtering happens in the resolver, not here.
func (s *DatabaseStore) GetDelegationsToUser(ctx context.Context, userID string) ([]Delegation, error) {
	var delegations []Delegation
	err := dbkit.WithErr1(s.db.NewSelect().Model(&delegations).Where("to_user_id = ?", userID).Order("created_at ASC").Scan(ctx), "GetDelegationsToUser").Err()
	if err != nil {
		return nil, err
	}
	return delegations, nil
}

// Health performs a comprehensive health check of the database connection.
// Returns detailed status including latency and connection pool statistics.
func (s *DatabaseStore) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}

	return dbkit.HealthStatus{
		Healthy: s.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy performs a simple reachability check of the database.
func (s *DatabaseStore) IsHealthy(ctx context.Context) bool {
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}
	return s.Ping(ctx) == nil
}

// Ping performs a basic connectivity test to the database.
func (s *DatabaseStore) Ping(ctx context.Context) error {
	var result int
	return s.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &result)
}

// PoolStats returns connection pool statistics for monitoring. Returns zero
// values if the underlying instance doesn't expose pool statistics.
func (s *DatabaseStore) PoolStats() dbkit.PoolStats {
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return dbkit.PoolStatsFromSQL(db.Stats())
	}
	return dbkit.PoolStats{}
}
