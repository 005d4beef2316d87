package permkit

import (
	"context"

	"go.uber.org/zap"
)

// Service resolves the effective permissions a user holds, combining direct
// grants, inherited role permissions, delegations, and guardian grants.
//
// Error Handling:
// Each sub-resolution (roles, delegations, guardians) swallows store faults
// at its own boundary: the failing source contributes nothing and a
// diagnostic goes to the configured logger. The public query methods never
// return errors; a resolution that fails outright yields an empty permission
// set. Callers therefore cannot distinguish "no permissions" from
// "resolution failed" — this is a deliberate fail-closed default.
type Service struct {
	store  Store
	cache  Cache
	clock  Clock
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the effective-permission cache. Defaults to an in-memory
// cache with the default TTL.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the logger that receives resolution diagnostics. Defaults
// to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a permission resolution service over a store gateway.
//
// Example:
//
//	store := permkit.NewDatabaseStore(db)
//	service := permkit.NewService(store,
//	    permkit.WithLogger(logger),
//	)
//	if service.HasPermission(ctx, userID, "reports", permkit.ActionRead) {
//	    // user can read reports
//	}
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  SystemClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewMemoryCache(DefaultCacheTTL, s.clock)
	}
	return s
}

// Store returns the underlying store gateway.
func (s *Service) Store() Store {
	return s.store
}

// GetEffectivePermissions returns the merged permission set for a user, one
// record per distinct resource. Results are served from cache when fresh.
//
// On any resolution failure (missing profile, store fault) it returns an
// empty slice rather than an error. An empty result is not proof of explicit
// denial; it may also mean the resolution itself failed.
func (s *Service) GetEffectivePermissions(ctx context.Context, userID string) []AccessPermission {
	if set, ok := s.cache.Get(ctx, userID); ok {
		return set.Permissions
	}

	set, err := s.resolve(ctx, userID)
	if err != nil {
		s.logger.Warn("permission resolution failed",
			zap.String("user_id", userID),
			zap.Error(err))
		return []AccessPermission{}
	}

	s.cache.Put(ctx, userID, set)
	return set.Permissions
}

// resolve computes the full effective permission set for a user from the
// store. It is a pure function of the stored data at the moment it runs, so
// concurrent duplicate computations are harmless. Partial results are never
// returned: either the whole pipeline runs or an error comes back.
func (s *Service) resolve(ctx context.Context, userID string) (*EffectivePermissions, error) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, NewError(ErrStoreFailure, "loading user profile: "+err.Error()).WithUser(userID)
	}
	if profile == nil {
		return nil, NewError(ErrNotFound, "user profile missing").WithUser(userID)
	}

	collected := s.collectDirectPermissions(ctx, userID)

	// One visited set spans every role tree of this user, so a role reachable
	// through two assignment paths contributes its permissions once.
	visited := make(map[string]struct{})
	for _, roleID := range profile.RoleIDs {
		s.expandRole(ctx, roleID, &collected, visited)
	}

	collected = append(collected, s.resolveDelegations(ctx, userID)...)

	if profile.IsMinor && profile.HasGuardians {
		collected = append(collected, s.resolveGuardianPermissions(ctx, profile)...)
	}

	now := s.clock.Now()
	return &EffectivePermissions{
		UserID:      userID,
		Permissions: MergePermissions(collected, now),
		ComputedAt:  now,
	}, nil
}

// collectDirectPermissions fetches the permissions granted straight to the
// user. A store fault degrades to zero direct permissions.
func (s *Service) collectDirectPermissions(ctx context.Context, userID string) []AccessPermission {
	direct, err := s.store.GetUserPermissions(ctx, userID)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Warn("direct permission lookup failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return nil
	}
	return direct
}
