package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/novacart/internal/catalog"
	"github.com/msomdec/novacart/internal/handler"
	"github.com/msomdec/novacart/internal/repository/sqlite"
	"github.com/msomdec/novacart/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	db         *sqlite.DB
	workspaces *service.Workspaces
	limiter    *service.TokenBucket
	srv        *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db: db,
		workspaces: service.NewWorkspaces(
			db.Substrate(),
			service.NewSessionMarkers(testSessionSecret, time.Hour),
			service.WorkspaceOptions{BcryptCost: bcrypt.MinCost, IdleTimeout: time.Hour},
		),
		limiter: service.NewTokenBucket(1, 100),
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, env.workspaces, catalog.Default(), env.limiter, db, false)
	env.srv = httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(env.srv.Close)
	return env
}

// newBrowser returns a client with its own cookie jar, standing in for one
// browser instance.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// do sends a JSON request and decodes the JSON response into out when non-nil.
func do(t *testing.T, client *http.Client, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type userResponse struct {
	User handler.IdentityDTO `json:"user"`
}

type cartResponse struct {
	Cart handler.CartDTO `json:"cart"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func signUp(t *testing.T, env *testEnv, client *http.Client, email, password, name string) handler.IdentityDTO {
	t.Helper()
	var resp userResponse
	status := do(t, client, http.MethodPost, env.srv.URL+"/api/auth/signup", map[string]string{
		"email": email, "password": password, "name": name,
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("sign up: expected 201, got %d", status)
	}
	return resp.User
}

func farFuture() time.Time {
	return time.Now().Add(24 * time.Hour)
}
