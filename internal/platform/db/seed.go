package db

import (
	"context"
	"errors"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/platform/querier"
)

// Seed makes sure every role and permission in auth.RolePermissions exists.
// Role ids equal role names so tokens can carry either.
func Seed(ctx context.Context, db querier.Querier) error {
	if err := ensurePermissions(ctx, db); err != nil {
		return err
	}
	if err := ensureRoles(ctx, db); err != nil {
		return err
	}
	return ensureRolePermissions(ctx, db)
}

func ensurePermissions(ctx context.Context, db querier.Querier) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := db.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, db querier.Querier) error {
	for roleName := range auth.RolePermissions {
		_, err := db.Exec(ctx, "INSERT INTO roles (id, name) VALUES ($1, $1) ON CONFLICT (id) DO NOTHING", roleName)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRolePermissions(ctx context.Context, db querier.Querier) error {
	permMap := map[string]int64{}
	rows, err := db.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			rows.Close()
			return err
		}
		permMap[key] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for roleName, perms := range auth.RolePermissions {
		for _, permKey := range perms {
			permID, ok := permMap[permKey]
			if !ok {
				return errors.New("permission not found: " + permKey)
			}
			_, err := db.Exec(ctx, "INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", roleName, permID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
