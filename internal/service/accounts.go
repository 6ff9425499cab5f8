package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/msomdec/novacart/internal/domain"
)

// Substrate keys owned by the session and cart stores.
const (
	KeyAccounts       = "novacart_users"
	KeyCurrentSession = "novacart_current_user"
	KeySessionMarker  = "novacart_token"
	KeyCart           = "novacart_cart"
)

// AccountRegistry is the durable account list, stored as one JSON array.
// A mutex serializes the read-modify-write of that array.
type AccountRegistry struct {
	mu sync.Mutex
	kv domain.KeyValueStore
}

// NewAccountRegistry creates a registry over the given store.
func NewAccountRegistry(kv domain.KeyValueStore) *AccountRegistry {
	return &AccountRegistry{kv: kv}
}

// Create appends the account unless its email is already registered.
func (r *AccountRegistry) Create(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}

	accounts = append(accounts, account)
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := r.kv.Set(ctx, KeyAccounts, string(data)); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// FindByEmail returns the account with exactly this email.
func (r *AccountRegistry) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

// load reads the account list. A missing or malformed value is an empty list.
func (r *AccountRegistry) load(ctx context.Context) ([]domain.Account, error) {
	raw, err := r.kv.Get(ctx, KeyAccounts)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	var accounts []domain.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		slog.Warn("discarding malformed account registry", "error", err)
		return nil, nil
	}
	return accounts, nil
}
