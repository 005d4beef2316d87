package permkit

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required for the PermKit
// schema.
// Use dbkit.Migrate(ctx, store.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, store.Migrations()) to check status.
func (s *DatabaseStore) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "permkit-001",
			Description: "Create user_profiles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS user_profiles (
                    id TEXT PRIMARY KEY,
                    role_ids TEXT[] NOT NULL DEFAULT '{}',
                    is_minor BOOLEAN NOT NULL DEFAULT false,
                    guardian_ids TEXT[] NOT NULL DEFAULT '{}',
                    has_guardians BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-002",
			Description: "Create roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    parent_role_ids TEXT[] NOT NULL DEFAULT '{}',
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-003",
			Description: "Create access_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS access_permissions (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    user_id TEXT,
                    role_id TEXT,
                    resource TEXT NOT NULL,
                    actions TEXT[] NOT NULL DEFAULT '{}',
                    granted_by TEXT,
                    granted_at TIMESTAMPTZ,
                    expires_at TIMESTAMPTZ,
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    reason TEXT,
                    conditions JSONB,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-004",
			Description: "Create indexes on access_permissions",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_access_permissions_user_id ON access_permissions (user_id);
                CREATE INDEX IF NOT EXISTS idx_access_permissions_role_id ON access_permissions (role_id)`,
		},
		{
			ID:          "permkit-005",
			Description: "Create delegations table",
			SQL: `
                CREATE TABLE IF NOT EXISTS delegations (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    from_user_id TEXT NOT NULL,
                    to_user_id TEXT NOT NULL,
                    delegated_rights TEXT[] NOT NULL DEFAULT '{}',
                    is_active BOOLEAN NOT NULL DEFAULT true,
                    expires_at TIMESTAMPTZ,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-006",
			Description: "Create index on delegations recipient",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_delegations_to_user_id ON delegations (to_user_id)`,
		},
	}
}
