package permkit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resolveDelegations converts the delegations addressed to a user into
// permission records. Inactive and expired delegations are skipped. Each
// delegated right becomes one record whose conditions identify the source
// delegation and delegating user.
//
// A store fault degrades to zero delegated permissions; it never aborts the
// overall resolution.
func (s *Service) resolveDelegations(ctx context.Context, userID string) []AccessPermission {
	delegations, err := s.store.GetDelegationsToUser(ctx, userID)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Warn("delegation lookup failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return nil
	}

	now := s.clock.Now()
	var granted []AccessPermission
	for i := range delegations {
		d := &delegations[i]
		if !d.IsActive || d.IsExpired(now) {
			continue
		}

		for _, right := range d.DelegatedRights {
			granted = append(granted, AccessPermission{
				ID:        uuid.NewString(),
				UserID:    userID,
				Resource:  right,
				Actions:   []Action{ActionRead, ActionWrite},
				GrantedBy: d.FromUserID,
				GrantedAt: d.CreatedAt,
				ExpiresAt: d.ExpiresAt,
				IsActive:  true,
				Reason:    "Delegated access from " + d.FromUserID,
				Conditions: Conditions{
					"delegation_id": IdentifierCondition(d.ID),
					"delegated_by":  IdentifierCondition(d.FromUserID),
				},
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}
	return granted
}
