package permkit

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resolveGuardianPermissions grants each qualifying guardian of a dependent
// user a pair of permissions scoped to the dependent's user id: guardian
// access over the dependent's data and basic access to consent management.
// Only called for minor profiles that declare guardians.
//
// Guardians with a missing profile or a failing role lookup are skipped;
// duplicates from several qualifying guardians collapse in the merger.
func (s *Service) resolveGuardianPermissions(ctx context.Context, profile *UserProfile) []AccessPermission {
	var granted []AccessPermission
	for _, guardianID := range profile.GuardianIDs {
		guardian, err := s.store.GetUserProfile(ctx, guardianID)
		if err != nil {
			if !IsNotFound(err) {
				s.logger.Warn("guardian profile lookup failed",
					zap.String("guardian_id", guardianID),
					zap.String("dependent_id", profile.ID),
					zap.Error(err))
			}
			continue
		}
		if guardian == nil {
			continue
		}

		roles, err := s.store.GetUserRoles(ctx, guardianID)
		if err != nil {
			if !IsNotFound(err) {
				s.logger.Warn("guardian role lookup failed",
					zap.String("guardian_id", guardianID),
					zap.Error(err))
			}
			continue
		}

		qualifies := false
		for i := range roles {
			if isGuardianRole(&roles[i]) {
				qualifies = true
				break
			}
		}
		if !qualifies {
			continue
		}

		granted = append(granted,
			s.guardianGrant(profile.ID, guardianID, ResourceDependentUserData, ActionGuardianAccess),
			s.guardianGrant(profile.ID, guardianID, ResourceConsentManagement, ActionBasicAccess),
		)
	}
	return granted
}

// isGuardianRole reports whether a role designates its holder as a guardian:
// either the reserved role id, or any role whose name contains "guardian".
func isGuardianRole(role *Role) bool {
	if role.ID == GuardianRoleID {
		return true
	}
	return strings.Contains(strings.ToLower(role.Name), GuardianRoleID)
}

func (s *Service) guardianGrant(dependentID, guardianID, resource string, action Action) AccessPermission {
	now := s.clock.Now()
	return AccessPermission{
		ID:        uuid.NewString(),
		UserID:    dependentID,
		Resource:  resource,
		Actions:   []Action{action},
		GrantedBy: SystemGrantor,
		GrantedAt: now,
		IsActive:  true,
		Reason:    "Guardian access for dependent user",
		Conditions: Conditions{
			"guardian_id":  IdentifierCondition(guardianID),
			"dependent_id": IdentifierCondition(dependentID),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
