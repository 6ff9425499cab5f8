package handler

import (
	"net/http"

	"github.com/msomdec/novacart/internal/catalog"
	"github.com/msomdec/novacart/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, workspaces *service.Workspaces, products *catalog.Catalog, limiter *service.TokenBucket, db Pinger, cookieSecure bool) {
	browser := func(h http.HandlerFunc) http.Handler {
		return BrowserSession(workspaces, cookieSecure, h)
	}
	gated := func(h http.HandlerFunc) http.Handler {
		return BrowserSession(workspaces, cookieSecure, RequireAuth(h))
	}

	authHandler := NewAuthHandler(limiter)
	productHandler := NewProductHandler(products)
	cartHandler := NewCartHandler(products)

	mux.HandleFunc("GET /healthz", HandleHealthz(db))

	mux.Handle("POST /api/auth/signup", browser(authHandler.HandleSignUp))
	mux.Handle("POST /api/auth/signin", browser(authHandler.HandleSignIn))
	mux.Handle("POST /api/auth/signout", browser(authHandler.HandleSignOut))
	mux.Handle("GET /api/auth/me", browser(authHandler.HandleMe))

	mux.Handle("GET /api/products", gated(productHandler.HandleList))
	mux.Handle("GET /api/products/{id}", gated(productHandler.HandleGet))

	mux.Handle("GET /api/cart", gated(cartHandler.HandleGet))
	mux.Handle("DELETE /api/cart", gated(cartHandler.HandleClear))
	mux.Handle("POST /api/cart/items", gated(cartHandler.HandleAdd))
	mux.Handle("PATCH /api/cart/items/{id}", gated(cartHandler.HandleUpdate))
	mux.Handle("DELETE /api/cart/items/{id}", gated(cartHandler.HandleRemove))

	mux.Handle("GET /api/stream", browser(HandleStream))
}
