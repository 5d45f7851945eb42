package middleware

import (
	"net/http"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/handlers/render"
	"github.com/dkravets/shopcore/internal/handlers/userctx"
)

// RequireRoles allows the request when the principal's role is ADMIN or is
// listed in the required set. Coarser than ability checks and usable with or
// without them. Must run after AuthMiddleware.
func RequireRoles(roles ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !authz.RoleAllowed(user.Role, roles...) {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
