package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/novacart/internal/domain"
	"github.com/msomdec/novacart/internal/repository/memory"
	"github.com/msomdec/novacart/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "test-secret-key-for-unit-tests-0123456789"

// recorder captures toasts and navigation requests.
type recorder struct {
	mu     sync.Mutex
	toasts []toast
	paths  []string
}

type toast struct {
	severity domain.Severity
	message  string
}

func (r *recorder) Notify(severity domain.Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast{severity, message})
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) lastToast(t *testing.T) toast {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		t.Fatal("expected a toast, got none")
	}
	return r.toasts[len(r.toasts)-1]
}

type sessionFixture struct {
	substrate *memory.Substrate
	accounts  *service.AccountRegistry
	markers   *service.SessionMarkers
	local     domain.KeyValueStore
	out       *recorder
	store     *service.SessionStore
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	sub := memory.NewSubstrate()
	f := &sessionFixture{
		substrate: sub,
		accounts:  service.NewAccountRegistry(sub.Scope(service.AccountScope)),
		markers:   service.NewSessionMarkers(testSessionSecret, time.Hour),
		local:     sub.Scope(service.BrowserScope("test")),
	}
	f.store, f.out = f.reopen(t)
	return f
}

// reopen builds a fresh session store over the same substrate, as a reload would.
func (f *sessionFixture) reopen(t *testing.T) (*service.SessionStore, *recorder) {
	t.Helper()
	out := &recorder{}
	// Use the minimum cost for fast tests.
	store, err := service.NewSessionStore(context.Background(), f.accounts, f.local, f.markers, out, out, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	return store, out
}
