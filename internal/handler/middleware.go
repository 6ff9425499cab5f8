package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/msomdec/novacart/internal/service"
)

type contextKey string

const workspaceContextKey contextKey = "workspace"

const (
	browserCookieName = "novacart_browser"
	browserCookieAge  = 400 * 24 * 60 * 60 // browsers cap cookie lifetime at 400 days
)

// WorkspaceFromContext extracts the browser's workspace from the request context.
// Returns nil outside BrowserSession.
func WorkspaceFromContext(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*service.Workspace)
	return ws
}

// BrowserSession is middleware that identifies the browser instance by its
// novacart_browser cookie, minting one on first visit, and injects the
// browser's workspace into the request context.
func BrowserSession(workspaces *service.Workspaces, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		browserID := ""
		if c, err := r.Cookie(browserCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				browserID = c.Value
			}
		}
		if browserID == "" {
			browserID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     browserCookieName,
				Value:    browserID,
				Path:     "/",
				HttpOnly: true,
				Secure:   cookieSecure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   browserCookieAge,
			})
		}

		ws, err := workspaces.Open(r.Context(), browserID)
		if err != nil {
			slog.Error("open workspace", "browser_id", browserID, "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
			return
		}

		ctx := context.WithValue(r.Context(), workspaceContextKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is middleware that gates views behind a signed-in session.
// Unauthenticated requests send the browser to the landing view and get 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := WorkspaceFromContext(r.Context())
		if ws == nil || !ws.Session.IsAuthenticated() {
			if ws != nil {
				ws.Feed.Navigate("/")
			}
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets conservative response headers on every request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
