package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/novacart/internal/catalog"
	"github.com/msomdec/novacart/internal/handler"
	"github.com/msomdec/novacart/internal/service"
)

func TestSignUp_SignsBrowserIn(t *testing.T) {
	env := newTestEnv(t)
	client := newBrowser(t)

	user := signUp(t, env, client, "ada@example.com", "secret1", "Ada")
	if user.ID == "" || user.Email != "ada@example.com" || user.Name != "Ada" {
		t.Fatalf("unexpected user: %+v", user)
	}

	var me userResponse
	if status := do(t, client, http.MethodGet, env.srv.URL+"/api/auth/me", nil, &me); status != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", status)
	}
	if me.User != user {
		t.Fatalf("me = %+v, want %+v", me.User, user)
	}
}

func TestSignUp_Errors(t *testing.T) {
	env := newTestEnv(t)
	signUp(t, env, newBrowser(t), "taken@example.com", "secret1", "Taken")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "secret1"}, http.StatusUnprocessableEntity},
		{"short password", map[string]string{"email": "a@example.com", "password": "12345", "name": "A"}, http.StatusUnprocessableEntity},
		{"duplicate email", map[string]string{"email": "taken@example.com", "password": "secret1", "name": "B"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newBrowser(t)
			var resp errorResponse
			status := do(t, client, http.MethodPost, env.srv.URL+"/api/auth/signup", tt.body, &resp)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if resp.Error == "" {
				t.Fatal("expected an error message")
			}
			if status := do(t, client, http.MethodGet, env.srv.URL+"/api/auth/me", nil, nil); status != http.StatusUnauthorized {
				t.Fatalf("me after failed sign-up: expected 401, got %d", status)
			}
		})
	}
}

func TestSignUp_LongPassword(t *testing.T) {
	env := newTestEnv(t)
	password := strings.Repeat("x", 100)

	signUp(t, env, newBrowser(t), "long@example.com", password, "Long")

	status := do(t, newBrowser(t), http.MethodPost, env.srv.URL+"/api/auth/signin", map[string]string{
		"email": "long@example.com", "password": password,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("sign in with long password: expected 200, got %d", status)
	}
}

func TestSignUp_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	resp, err := newBrowser(t).Post(env.srv.URL+"/api/auth/signup", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSignIn_FromAnotherBrowser(t *testing.T) {
	env := newTestEnv(t)
	created := signUp(t, env, newBrowser(t), "ada@example.com", "secret1", "Ada")

	client := newBrowser(t)
	var resp userResponse
	status := do(t, client, http.MethodPost, env.srv.URL+"/api/auth/signin", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.User != created {
		t.Fatalf("signed in as %+v, want %+v", resp.User, created)
	}
}

func TestSignIn_Errors(t *testing.T) {
	env := newTestEnv(t)
	signUp(t, env, newBrowser(t), "ada@example.com", "secret1", "Ada")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"missing password", map[string]string{"email": "ada@example.com"}, http.StatusUnprocessableEntity},
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "wrong12"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "bob@example.com", "password": "secret1"}, http.StatusUnauthorized},
		{"email case differs", map[string]string{"email": "ADA@example.com", "password": "secret1"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := do(t, newBrowser(t), http.MethodPost, env.srv.URL+"/api/auth/signin", tt.body, nil)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
		})
	}
}

func TestSignIn_RateLimited(t *testing.T) {
	env := newTestEnv(t)

	mux := http.NewServeMux()
	limiter := service.NewTokenBucket(0.001, 2)
	handler.RegisterRoutes(mux, env.workspaces, catalog.Default(), limiter, env.db, false)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newBrowser(t)
	body := map[string]string{"email": "nobody@example.com", "password": "secret1"}
	for i := range 2 {
		if status := do(t, client, http.MethodPost, srv.URL+"/api/auth/signin", body, nil); status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, status)
		}
	}
	if status := do(t, client, http.MethodPost, srv.URL+"/api/auth/signin", body, nil); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
}

func TestSignOut(t *testing.T) {
	env := newTestEnv(t)
	client := newBrowser(t)
	signUp(t, env, client, "ada@example.com", "secret1", "Ada")

	if status := do(t, client, http.MethodPost, env.srv.URL+"/api/auth/signout", nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if status := do(t, client, http.MethodGet, env.srv.URL+"/api/auth/me", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me after sign-out: expected 401, got %d", status)
	}
	if status := do(t, client, http.MethodGet, env.srv.URL+"/api/cart", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("cart after sign-out: expected 401, got %d", status)
	}
}

func TestSession_SurvivesWorkspaceEviction(t *testing.T) {
	env := newTestEnv(t)
	client := newBrowser(t)
	user := signUp(t, env, client, "ada@example.com", "secret1", "Ada")

	if n := env.workspaces.Sweep(farFuture()); n != 1 {
		t.Fatalf("expected 1 evicted workspace, got %d", n)
	}

	var me userResponse
	if status := do(t, client, http.MethodGet, env.srv.URL+"/api/auth/me", nil, &me); status != http.StatusOK {
		t.Fatalf("me after eviction: expected 200, got %d", status)
	}
	if me.User != user {
		t.Fatalf("restored %+v, want %+v", me.User, user)
	}
}
