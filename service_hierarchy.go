package permkit

import (
	"context"

	"go.uber.org/zap"
)

// expandRole appends the permissions of a role and all its ancestors to acc.
//
// The visited set guards against cycles in the parent graph and against
// diamond inheritance: a role id already visited returns immediately, so
// every role contributes at most once per resolution. The set is scoped to a
// single resolution and never shared between concurrent queries.
//
// Missing and inactive roles contribute nothing; a store fault on one role
// prunes that branch only.
func (s *Service) expandRole(ctx context.Context, roleID string, acc *[]AccessPermission, visited map[string]struct{}) {
	if _, seen := visited[roleID]; seen {
		return
	}
	visited[roleID] = struct{}{}

	role, err := s.store.GetUserRole(ctx, roleID)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Warn("role lookup failed",
				zap.String("role_id", roleID),
				zap.Error(err))
		}
		return
	}
	if role == nil || !role.IsActive {
		return
	}

	*acc = append(*acc, role.Permissions...)

	for _, parentID := range role.ParentRoleIDs {
		s.expandRole(ctx, parentID, acc, visited)
	}
}
