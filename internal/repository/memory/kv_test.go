package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/novacart/internal/domain"
	"github.com/msomdec/novacart/internal/repository/memory"
)

var (
	_ domain.Substrate = (*memory.Substrate)(nil)
	_ domain.Database  = (*memory.Substrate)(nil)
)

func TestSubstrate_RoundTrip(t *testing.T) {
	sub := memory.NewSubstrate()
	kv := sub.Scope("browser:x")
	ctx := context.Background()

	if _, err := kv.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Fatalf("expected v, got %q", got)
	}

	if err := kv.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestSubstrate_ScopesAreIsolated(t *testing.T) {
	sub := memory.NewSubstrate()
	ctx := context.Background()

	if err := sub.Scope("a").Set(ctx, "k", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := sub.Scope("b").Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected scope b to be empty, got %v", err)
	}
}

func TestSubstrate_CloseDropsEntries(t *testing.T) {
	sub := memory.NewSubstrate()
	ctx := context.Background()

	if err := sub.Scope("a").Set(ctx, "k", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := sub.Scope("a").Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected entries dropped after close, got %v", err)
	}
}
