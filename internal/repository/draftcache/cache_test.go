package draftcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NeilARaman/Echo/internal/domain"
)

func TestMemory_PutGet(t *testing.T) {
	c := NewMemory(time.Minute, 10, nil)
	token, err := c.Put(context.Background(), "my draft")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	got, err := c.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "my draft" {
		t.Errorf("got %q", got)
	}
}

func TestMemory_MissingToken(t *testing.T) {
	c := NewMemory(time.Minute, 10, nil)
	_, err := c.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestMemory_LazyExpiry(t *testing.T) {
	c := NewMemory(time.Minute, 10, nil)
	now := time.Now()
	c.now = func() time.Time { return now }

	token, _ := c.Put(context.Background(), "ephemeral")

	now = now.Add(2 * time.Minute)
	_, err := c.Get(context.Background(), token)
	if !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}

	// Entry must be gone after the lazy eviction.
	c.mu.Lock()
	if len(c.entries) != 0 {
		t.Errorf("expected evicted entry, have %d", len(c.entries))
	}
	c.mu.Unlock()
}

func TestMemory_CapacityDropsOldest(t *testing.T) {
	c := NewMemory(time.Minute, 2, nil)
	t1, _ := c.Put(context.Background(), "one")
	t2, _ := c.Put(context.Background(), "two")
	t3, _ := c.Put(context.Background(), "three")

	if _, err := c.Get(context.Background(), t1); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Error("oldest entry should have been dropped")
	}
	for _, token := range []string{t2, t3} {
		if _, err := c.Get(context.Background(), token); err != nil {
			t.Errorf("expected entry for %s, got %v", token, err)
		}
	}
}
