package middleware

import (
	"net/http"
	"strings"

	"github.com/dkravets/shopcore/internal/handlers/render"
	"github.com/dkravets/shopcore/internal/handlers/userctx"
	"github.com/dkravets/shopcore/internal/models"
)

type accessParser interface {
	// Verify the access token and return the principal it asserts
	ParseAccess(access string) (models.User, error)
}

// AuthMiddleware verifies the Bearer access token and puts the principal into
// the request context
func AuthMiddleware(parser accessParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(auth, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := parser.ParseAccess(token)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
