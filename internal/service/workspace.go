package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/msomdec/novacart/internal/domain"
)

// AccountScope is the substrate scope holding the shared account registry.
const AccountScope = "accounts"

// BrowserScope returns the substrate scope of one browser instance.
func BrowserScope(browserID string) string {
	return "browser:" + browserID
}

// Workspace is the state of one browser instance: its session, its cart, and
// the feed that carries toasts and navigation to its event stream.
type Workspace struct {
	ID      string
	Session *SessionStore
	Cart    *CartStore
	Feed    *Feed

	lastSeen time.Time
}

// WorkspaceOptions configures how workspaces are built.
type WorkspaceOptions struct {
	BcryptCost  int
	DurableCart bool
	IdleTimeout time.Duration
}

// Workspaces opens workspaces lazily and evicts them when idle. An evicted
// workspace is rebuilt from the substrate on the next request, exactly like
// a browser reload.
type Workspaces struct {
	mu        sync.Mutex
	open      map[string]*Workspace
	substrate domain.Substrate
	accounts  *AccountRegistry
	markers   *SessionMarkers
	opts      WorkspaceOptions
	now       func() time.Time
}

// NewWorkspaces creates a workspace manager over the substrate.
func NewWorkspaces(substrate domain.Substrate, markers *SessionMarkers, opts WorkspaceOptions) *Workspaces {
	return &Workspaces{
		open:      make(map[string]*Workspace),
		substrate: substrate,
		accounts:  NewAccountRegistry(substrate.Scope(AccountScope)),
		markers:   markers,
		opts:      opts,
		now:       time.Now,
	}
}

// Open returns the workspace for the browser, building it on first use.
func (w *Workspaces) Open(ctx context.Context, browserID string) (*Workspace, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.open[browserID]; ok {
		ws.lastSeen = w.now()
		return ws, nil
	}

	local := w.substrate.Scope(BrowserScope(browserID))
	feed := NewFeed()

	session, err := NewSessionStore(ctx, w.accounts, local, w.markers, feed, feed, w.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var cartSnapshot domain.KeyValueStore
	if w.opts.DurableCart {
		cartSnapshot = local
	}
	cart, err := NewCartStore(ctx, cartSnapshot)
	if err != nil {
		return nil, fmt.Errorf("open cart store: %w", err)
	}

	ws := &Workspace{
		ID:       browserID,
		Session:  session,
		Cart:     cart,
		Feed:     feed,
		lastSeen: w.now(),
	}
	w.open[browserID] = ws
	slog.Debug("workspace opened", "browser_id", browserID, "authenticated", session.IsAuthenticated())
	return ws, nil
}

// Len returns the number of open workspaces.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.open)
}

// Sweep evicts workspaces idle longer than the configured timeout. A
// workspace with a connected event stream is never idle.
func (w *Workspaces) Sweep(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.opts.IdleTimeout)
	removed := 0
	for id, ws := range w.open {
		if ws.Feed.subs.count() > 0 {
			continue
		}
		if ws.lastSeen.Before(cutoff) {
			delete(w.open, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("workspaces evicted", "count", removed)
	}
	return removed
}

// Run sweeps on a ticker until ctx ends.
func (w *Workspaces) Run(ctx context.Context) {
	interval := w.opts.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(w.now())
		}
	}
}
