package auth

import (
	"context"
	"slices"

	"hrinsight/internal/platform/querier"
)

// Store answers permission checks from the roles tables. Role ids are the
// role names seeded by the reporting migration.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	var allowed bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1
      FROM role_permissions rp
      JOIN permissions p ON p.id = rp.permission_id
      WHERE rp.role_id = $1 AND p.key = $2
    )
  `, roleID, permission).Scan(&allowed)
	return allowed, err
}

// StaticPermissions checks against RolePermissions without a database.
type StaticPermissions map[string][]string

func (s StaticPermissions) HasPermission(_ context.Context, roleID, permission string) (bool, error) {
	return slices.Contains(s[roleID], permission), nil
}
