package permkit

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests, examples, and embedding the
// engine without a database. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[string]UserProfile
	roles       map[string]Role
	permissions map[string][]AccessPermission // by subject user id
	delegations map[string][]Delegation       // by recipient user id
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[string]UserProfile),
		roles:       make(map[string]Role),
		permissions: make(map[string][]AccessPermission),
		delegations: make(map[string][]Delegation),
	}
}

// PutProfile stores or replaces a user profile.
func (s *MemoryStore) PutProfile(profile UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
}

// PutRole stores or replaces a role, including its permissions.
func (s *MemoryStore) PutRole(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.ID] = role
}

// AddPermission appends a direct permission grant for its subject user.
func (s *MemoryStore) AddPermission(permission AccessPermission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions[permission.UserID] = append(s.permissions[permission.UserID], permission)
}

// AddDelegation appends a delegation addressed to its recipient user.
func (s *MemoryStore) AddDelegation(delegation Delegation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegations[delegation.ToUserID] = append(s.delegations[delegation.ToUserID], delegation)
}

// GetUserProfile returns the profile for a user.
func (s *MemoryStore) GetUserProfile(_ context.Context, userID string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, NewError(ErrNotFound, "user profile").WithUser(userID)
	}
	return &profile, nil
}

// GetUserPermissions returns the permissions granted directly to a user.
func (s *MemoryStore) GetUserPermissions(_ context.Context, userID string) ([]AccessPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.permissions[userID]
	result := make([]AccessPermission, len(stored))
	copy(result, stored)
	return result, nil
}

// GetUserRole returns a single role by id.
func (s *MemoryStore) GetUserRole(_ context.Context, roleID string) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[roleID]
	if !ok {
		return nil, NewError(ErrNotFound, "role").WithRole(roleID)
	}
	return &role, nil
}

// GetUserRoles returns the roles assigned to a user. Role ids on the profile
// that don't resolve are skipped.
func (s *MemoryStore) GetUserRoles(_ context.Context, userID string) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, NewError(ErrNotFound, "user profile").WithUser(userID)
	}

	var roles []Role
	for _, roleID := range profile.RoleIDs {
		if role, ok := s.roles[roleID]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// GetDelegationsToUser returns all delegations addressed to a user.
func (s *MemoryStore) GetDelegationsToUser(_ context.Context, userID string) ([]Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.delegations[userID]
	result := make([]Delegation, len(stored))
	copy(result, stored)
	return result, nil
}
