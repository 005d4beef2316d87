package permkit

import (
	"context"
)

// HasPermission checks if a user holds an action over a resource. A match is
// an effective permission that is still valid, covers the resource exactly
// or through the wildcard, and grants the action.
//
// Example:
//
//	if service.HasPermission(ctx, userID, "reports", permkit.ActionRead) {
//	    // user can read reports
//	}
func (s *Service) HasPermission(ctx context.Context, userID, resource string, action Action) bool {
	now := s.clock.Now()
	perms := s.GetEffectivePermissions(ctx, userID)
	for i := range perms {
		p := &perms[i]
		if p.IsValid(now) && p.MatchesResource(resource) && p.HasAction(action) {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if a user holds at least one of the actions over a
// resource. Short-circuits on the first match.
func (s *Service) HasAnyPermission(ctx context.Context, userID, resource string, actions []Action) bool {
	for _, action := range actions {
		if s.HasPermission(ctx, userID, resource, action) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if a user holds every one of the actions over a
// resource. Short-circuits on the first miss.
func (s *Service) HasAllPermissions(ctx context.Context, userID, resource string, actions []Action) bool {
	for _, action := range actions {
		if !s.HasPermission(ctx, userID, resource, action) {
			return false
		}
	}
	return true
}

// GetAccessibleResources returns the distinct resource identifiers the user
// currently holds valid permissions for, in first-seen order. A wildcard
// grant appears as the literal "*".
func (s *Service) GetAccessibleResources(ctx context.Context, userID string) []string {
	now := s.clock.Now()
	perms := s.GetEffectivePermissions(ctx, userID)

	seen := make(map[string]bool)
	var resources []string
	for i := range perms {
		p := &perms[i]
		if !p.IsValid(now) || seen[p.Resource] {
			continue
		}
		seen[p.Resource] = true
		resources = append(resources, p.Resource)
	}
	return resources
}

// GetResourcePermissions returns the user's currently valid effective
// permissions covering a resource, wildcard grants included.
func (s *Service) GetResourcePermissions(ctx context.Context, userID, resource string) []AccessPermission {
	now := s.clock.Now()
	perms := s.GetEffectivePermissions(ctx, userID)

	var matched []AccessPermission
	for i := range perms {
		p := &perms[i]
		if p.IsValid(now) && p.MatchesResource(resource) {
			matched = append(matched, *p)
		}
	}
	return matched
}

// ClearUserCache drops the cached permission set for one user. Collaborators
// call this when the user's roles, permissions, or delegations change; the
// engine does not observe writes it did not make.
func (s *Service) ClearUserCache(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, userID)
}

// ClearAllCache drops every cached permission set.
func (s *Service) ClearAllCache(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
}
