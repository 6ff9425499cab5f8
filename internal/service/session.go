package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/msomdec/novacart/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

// SessionStore owns the current identity of one browser instance. The
// account registry is shared; the snapshot and marker live in the browser's
// own key-value scope.
type SessionStore struct {
	// publishMu is held from commit through publish so listeners observe
	// mutations in commit order. It is always taken before mu.
	publishMu  sync.Mutex
	mu         sync.Mutex
	accounts   *AccountRegistry
	local      domain.KeyValueStore
	markers    *SessionMarkers
	notifier   domain.Notifier
	navigator  domain.Navigator
	bcryptCost int

	current *domain.Identity
	marker  string
	subs    observers[*domain.Identity]
}

// NewSessionStore creates a session store and restores the current identity
// from the snapshot in local, if one is present and its marker verifies.
func NewSessionStore(ctx context.Context, accounts *AccountRegistry, local domain.KeyValueStore, markers *SessionMarkers, notifier domain.Notifier, navigator domain.Navigator, bcryptCost int) (*SessionStore, error) {
	s := &SessionStore{
		accounts:   accounts,
		local:      local,
		markers:    markers,
		notifier:   notifier,
		navigator:  navigator,
		bcryptCost: bcryptCost,
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SignUp registers a new account and makes it the current session.
func (s *SessionStore) SignUp(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return s.fail(fmt.Errorf("%w: email, password, and name are required", domain.ErrInvalidInput), "All fields are required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return s.fail(fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength), "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword(secretDigest(password), s.bcryptCost)
	if err != nil {
		return s.fail(fmt.Errorf("hash password: %w", err), "Something went wrong. Please try again.")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return s.fail(fmt.Errorf("generate account id: %w", err), "Something went wrong. Please try again.")
	}

	account := domain.Account{
		ID:     id.String(),
		Email:  email,
		Name:   name,
		Secret: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return s.fail(err, "User already exists")
		}
		return s.fail(fmt.Errorf("create account: %w", err), "Something went wrong. Please try again.")
	}

	if err := s.begin(ctx, account.Identity()); err != nil {
		return s.fail(err, "Something went wrong. Please try again.")
	}

	slog.Info("account created", "account_id", account.ID)
	s.notifier.Notify(domain.SeveritySuccess, "Account created successfully!")
	return nil
}

// SignIn makes the account matching email and password the current session.
// The email match is exact and case-sensitive.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return s.fail(fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput), "Email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.fail(domain.ErrUnauthorized, "Invalid email or password")
		}
		return s.fail(fmt.Errorf("find account: %w", err), "Something went wrong. Please try again.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Secret), secretDigest(password)); err != nil {
		return s.fail(domain.ErrUnauthorized, "Invalid email or password")
	}

	if err := s.begin(ctx, account.Identity()); err != nil {
		return s.fail(err, "Something went wrong. Please try again.")
	}

	s.notifier.Notify(domain.SeveritySuccess, "Logged in successfully!")
	return nil
}

// SignOut clears the current session and sends the user to the landing view.
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if err := s.local.Remove(ctx, KeyCurrentSession); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	if err := s.local.Remove(ctx, KeySessionMarker); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("remove session marker: %w", err)
	}
	s.current = nil
	s.marker = ""
	s.mu.Unlock()

	s.subs.publish(nil)
	s.notifier.Notify(domain.SeveritySuccess, "Logged out successfully!")
	s.navigator.Navigate("/")
	return nil
}

// CurrentIdentity returns the signed-in identity, if any.
func (s *SessionStore) CurrentIdentity() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether an identity is current.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Marker returns the current session-marker token, or "" when signed out.
func (s *SessionStore) Marker() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marker
}

// Subscribe registers fn to run after every sign-up, sign-in, and sign-out
// with the resulting identity (nil when signed out).
func (s *SessionStore) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	return s.subs.subscribe(fn)
}

// begin persists the snapshot and marker, then makes id current.
func (s *SessionStore) begin(ctx context.Context, id domain.Identity) error {
	marker, err := s.markers.Issue(id)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if err := s.local.Set(ctx, KeyCurrentSession, string(snapshot)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save session snapshot: %w", err)
	}
	if err := s.local.Set(ctx, KeySessionMarker, marker); err != nil {
		if rmErr := s.local.Remove(ctx, KeyCurrentSession); rmErr != nil {
			slog.Warn("remove orphaned session snapshot", "error", rmErr)
		}
		s.mu.Unlock()
		return fmt.Errorf("save session marker: %w", err)
	}
	s.current = &id
	s.marker = marker
	s.mu.Unlock()

	published := id
	s.subs.publish(&published)
	return nil
}

// restore loads the snapshot at cold start. Missing or malformed data, or a
// marker that does not verify for the snapshot's identity, leaves the
// session absent.
func (s *SessionStore) restore(ctx context.Context) error {
	raw, err := s.local.Get(ctx, KeyCurrentSession)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session snapshot: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.ID == "" {
		slog.Debug("ignoring malformed session snapshot")
		return nil
	}

	marker, err := s.local.Get(ctx, KeySessionMarker)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session marker: %w", err)
	}
	subject, err := s.markers.Verify(marker)
	if err != nil || subject != id.ID {
		slog.Debug("ignoring session snapshot with invalid marker", "account_id", id.ID)
		return nil
	}

	s.current = &id
	s.marker = marker
	return nil
}

// secretDigest fixes the bcrypt input at 44 bytes so passwords of any length
// hash, staying under bcrypt's 72-byte limit.
func secretDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// fail emits the user-visible message and returns err.
func (s *SessionStore) fail(err error, message string) error {
	s.notifier.Notify(domain.SeverityError, message)
	return err
}
