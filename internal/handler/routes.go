package handler

import (
	"net/http"

	"github.com/tripora/tripora/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Catalog reads
// are public; writes require an authenticated user.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	catalog *service.CatalogService,
	media *service.MediaService,
	loginLimiter *service.TokenBucket,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, loginLimiter, cookieSecure)
	catalogHandler := NewCatalogHandler(catalog, media)
	mediaHandler := NewMediaHandler(media)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	// Literal segments must be registered alongside the {id} wildcard so
	// /api/packages/categories does not resolve as an id lookup.
	mux.HandleFunc("GET /api/{kind}", catalogHandler.HandleList)
	mux.HandleFunc("GET /api/{kind}/categories", catalogHandler.HandleCategories)
	mux.HandleFunc("GET /api/{kind}/category/{category}", catalogHandler.HandleListByCategory)
	mux.HandleFunc("GET /api/{kind}/{id}", catalogHandler.HandleGet)

	mux.Handle("POST /api/{kind}", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleCreate)))
	mux.Handle("PUT /api/{kind}/{id}", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleUpdate)))
	mux.Handle("DELETE /api/{kind}/{id}", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleDelete)))

	mux.HandleFunc("GET /media/{ref}", mediaHandler.HandleGet)
}
