package middleware

import (
	"context"
	"net/http"

	"hrinsight/internal/requestctx"
	"hrinsight/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

// RequirePermission gates a route on the caller's role. Anonymous callers get
// 401; a role lacking the permission gets 403 naming what was required.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleID, permission)
			if err != nil {
				requestctx.Logger(r.Context()).Error("permission check failed", "role", user.RoleID, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", requestID)
				return
			}
			if !allowed {
				requestctx.Logger(r.Context()).Info("permission denied", "userId", user.UserID, "role", user.RoleID, "permission", permission)
				api.FailWithDetails(w, http.StatusForbidden, "forbidden", "insufficient permissions",
					map[string]any{"required": permission}, requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
