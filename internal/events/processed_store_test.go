package events

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *ProcessedStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewProcessedStore(client, ttl)
}

func TestMarkThenAlreadyProcessed(t *testing.T) {
	_, store := newStore(t, time.Hour)
	ctx := context.Background()

	seen, err := store.AlreadyProcessed(ctx, "pix", "evt-1")
	if err != nil {
		t.Fatalf("AlreadyProcessed: %v", err)
	}
	if seen {
		t.Fatal("fresh event should not be processed")
	}

	first, err := store.MarkProcessed(ctx, "pix", "evt-1")
	if err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if !first {
		t.Fatal("first mark should win")
	}

	second, err := store.MarkProcessed(ctx, "pix", "evt-1")
	if err != nil {
		t.Fatalf("second MarkProcessed: %v", err)
	}
	if second {
		t.Fatal("second mark must lose the SETNX race")
	}

	seen, err = store.AlreadyProcessed(ctx, "pix", "evt-1")
	if err != nil {
		t.Fatalf("AlreadyProcessed after mark: %v", err)
	}
	if !seen {
		t.Fatal("marked event should be reported as processed")
	}
}

func TestProvidersAreNamespaced(t *testing.T) {
	_, store := newStore(t, time.Hour)
	ctx := context.Background()

	if _, err := store.MarkProcessed(ctx, "pix", "evt-1"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	seen, err := store.AlreadyProcessed(ctx, "whatsapp", "evt-1")
	if err != nil {
		t.Fatalf("AlreadyProcessed: %v", err)
	}
	if seen {
		t.Fatal("same event id under another provider must not collide")
	}
}

func TestRetentionWindowExpires(t *testing.T) {
	mr, store := newStore(t, time.Minute)
	ctx := context.Background()

	if _, err := store.MarkProcessed(ctx, "pix", "evt-1"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	seen, err := store.AlreadyProcessed(ctx, "pix", "evt-1")
	if err != nil {
		t.Fatalf("AlreadyProcessed: %v", err)
	}
	if seen {
		t.Fatal("event should fall out after the retention window")
	}
}
