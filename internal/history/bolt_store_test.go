package history

import (
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresResponses(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		EntryTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/history.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenResponse("ep1", "digest1")
	if err != nil || seen {
		t.Fatalf("expected unseen response, seen=%v err=%v", seen, err)
	}

	if err := store.MarkResponse("ep1", "digest1"); err != nil {
		t.Fatalf("MarkResponse: %v", err)
	}

	seen, err = store.SeenResponse("ep1", "digest1")
	if err != nil || !seen {
		t.Fatalf("expected response marked as seen, got seen=%v err=%v", seen, err)
	}

	// The same digest under another endpoint is a distinct entry.
	seen, err = store.SeenResponse("ep2", "digest1")
	if err != nil || seen {
		t.Fatalf("digest leaked across endpoints, seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenResponse("ep1", "digest1")
	if err != nil {
		t.Fatalf("SeenResponse after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkResponse("ep", "x"); err != nil {
		t.Fatalf("noop store MarkResponse: %v", err)
	}
}
