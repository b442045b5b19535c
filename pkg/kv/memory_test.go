package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type record struct {
		Name  string  `json:"name"`
		Count int     `json:"count"`
		Price float64 `json:"price"`
	}

	in := record{Name: "City Center Parking", Count: 20, Price: 50}
	if err := store.Set(ctx, "spot", in); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var out record
	if err := store.Get(ctx, "spot", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()

	var dest map[string]any
	err := store.Get(context.Background(), "never-written", &dest)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "balance", 500.0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Delete(ctx, "balance"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var balance float64
	if err := store.Get(ctx, "balance", &balance); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "balance"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "counter", 1); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "counter", 2); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var counter int
	if err := store.Get(ctx, "counter", &counter); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if counter != 2 {
		t.Errorf("expected last write to win, got %d", counter)
	}
}
