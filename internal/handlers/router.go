package handlers

import (
	"net/http"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/handlers/middleware"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	auth *AuthHandler,
	users *UserHandler,
	products *ProductHandler,
	categories *CategoryHandler,
	authMiddleware func(http.Handler) http.Handler,
	loggerMiddleware func(http.Handler) http.Handler,
) http.Handler {
	adminOnly := middleware.RequireRoles(authz.RoleAdmin)
	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(adminOnly(h))
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/register", http.HandlerFunc(auth.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(auth.Login))
	mux.Handle("POST /api/auth/refresh", http.HandlerFunc(auth.Refresh))
	mux.Handle("POST /api/auth/logout", withAuth(auth.Logout))

	mux.Handle("GET /api/users/me", withAuth(users.Me))
	mux.Handle("GET /api/users/{id}", withAuth(users.Get))
	mux.Handle("PATCH /api/users/{id}", withAuth(users.UpdateEmail))

	mux.Handle("GET /api/products", http.HandlerFunc(products.List))
	mux.Handle("GET /api/products/{id}", http.HandlerFunc(products.Get))
	mux.Handle("POST /api/products", withAuth(products.Create))
	mux.Handle("PUT /api/products/{id}", withAuth(products.Update))
	mux.Handle("DELETE /api/products/{id}", withAuth(products.Delete))

	mux.Handle("GET /api/categories", http.HandlerFunc(categories.List))
	mux.Handle("GET /api/categories/{id}", http.HandlerFunc(categories.Get))
	// Category mutations are admin territory: the role guard runs ahead of
	// the ability checks inside the service
	mux.Handle("POST /api/categories", withAdmin(categories.Create))
	mux.Handle("PUT /api/categories/{id}", withAdmin(categories.Update))
	mux.Handle("DELETE /api/categories/{id}", withAdmin(categories.Delete))

	return chain(mux, loggerMiddleware)
}
