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

// CartStore owns the line items of one browser instance's cart. Totals are
// derived from the items on every read.
type CartStore struct {
	// publishMu keeps listener calls in commit order; taken before mu.
	publishMu sync.Mutex
	mu        sync.Mutex
	items     []domain.LineItem
	snapshot  domain.KeyValueStore // nil keeps the cart in memory only
	subs      observers[domain.Cart]
}

// NewCartStore creates a cart. When snapshot is non-nil the cart is restored
// from it and every mutation is written back under KeyCart.
func NewCartStore(ctx context.Context, snapshot domain.KeyValueStore) (*CartStore, error) {
	c := &CartStore{snapshot: snapshot}
	if snapshot == nil {
		return c, nil
	}

	raw, err := snapshot.Get(ctx, KeyCart)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Debug("ignoring malformed cart snapshot", "error", err)
		return c, nil
	}
	c.items = validItems(items)
	return c, nil
}

// AddToCart increments the quantity of an existing line with the same id, or
// appends a new line with quantity 1.
func (c *CartStore) AddToCart(ctx context.Context, ref domain.ProductRef) error {
	return c.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		for i := range items {
			if items[i].ID == ref.ID {
				items[i].Quantity++
				return items, true
			}
		}
		return append(items, domain.LineItem{
			ID:       ref.ID,
			Name:     ref.Name,
			Price:    ref.Price,
			Image:    ref.Image,
			Quantity: 1,
		}), true
	})
}

// RemoveFromCart drops the line with the given id. Absent ids are a no-op.
func (c *CartStore) RemoveFromCart(ctx context.Context, id string) error {
	return c.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

// UpdateQuantity sets the quantity of the line with the given id. A quantity
// of zero or less removes the line. Absent ids are a no-op.
func (c *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveFromCart(ctx, id)
	}
	return c.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		for i := range items {
			if items[i].ID == id {
				if items[i].Quantity == quantity {
					return items, false
				}
				items[i].Quantity = quantity
				return items, true
			}
		}
		return items, false
	})
}

// Clear empties the cart.
func (c *CartStore) Clear(ctx context.Context) error {
	return c.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		return nil, len(items) > 0
	})
}

// Items returns a copy of the line items in cart order.
func (c *CartStore) Items() []domain.LineItem {
	return c.Snapshot().Items
}

// TotalItems is the sum of all quantities.
func (c *CartStore) TotalItems() int {
	return c.Snapshot().TotalItems()
}

// TotalPrice is the sum of price times quantity.
func (c *CartStore) TotalPrice() float64 {
	return c.Snapshot().TotalPrice()
}

// Snapshot returns a copy of the cart.
func (c *CartStore) Snapshot() domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Cart{Items: append([]domain.LineItem(nil), c.items...)}
}

// Subscribe registers fn to run after every mutation that changed the cart.
func (c *CartStore) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	return c.subs.subscribe(fn)
}

// mutate applies fn to a working copy. The copy replaces the items only after
// the snapshot write succeeds, and listeners see the committed state.
func (c *CartStore) mutate(ctx context.Context, fn func([]domain.LineItem) ([]domain.LineItem, bool)) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	next, changed := fn(append([]domain.LineItem(nil), c.items...))
	if !changed {
		c.mu.Unlock()
		return nil
	}

	if c.snapshot != nil {
		if err := c.persist(ctx, next); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.items = next
	cart := domain.Cart{Items: append([]domain.LineItem(nil), next...)}
	c.mu.Unlock()

	c.subs.publish(cart)
	return nil
}

func (c *CartStore) persist(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		if err := c.snapshot.Remove(ctx, KeyCart); err != nil {
			return fmt.Errorf("remove cart snapshot: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := c.snapshot.Set(ctx, KeyCart, string(data)); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// validItems drops restored lines that break the cart's invariants.
func validItems(items []domain.LineItem) []domain.LineItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 || it.Price < 0 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
