package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/internal/store"
)

func newTestRetriever(t *testing.T) (*Retriever, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewRetriever(st), st
}

func seedMessage(t *testing.T, st *store.SQLiteStore, username, text string, at time.Time) {
	t.Helper()
	msg := &domain.Message{
		MessageID: username + "-" + at.String(),
		Username:  username,
		Role:      domain.RoleUser,
		Text:      text,
		CreatedAt: at,
	}
	if err := st.CreateMessage(context.Background(), msg); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
}

func TestRetrieveRecencyOrder(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRetriever(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, st, "alice", "cats are great", base)
	seedMessage(t, st, "alice", "dogs are great", base.Add(time.Second))
	seedMessage(t, st, "alice", "cats rule", base.Add(2*time.Second))

	texts, err := r.Retrieve(ctx, "alice", "cats", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(texts) != 2 || texts[0] != "cats rule" || texts[1] != "cats are great" {
		t.Fatalf("unexpected result: %v", texts)
	}
}

func TestRetrieveBoundedAndScoped(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRetriever(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedMessage(t, st, "alice", "recurring topic", base.Add(time.Duration(i)*time.Second))
	}
	seedMessage(t, st, "bob", "recurring topic", base)

	texts, err := r.Retrieve(ctx, "alice", "topic", 3)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("expected at most 3 results, got %d", len(texts))
	}

	// Bob's messages are invisible to Alice's retrieval.
	texts, err = r.Retrieve(ctx, "carol", "topic", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(texts) != 0 {
		t.Fatalf("expected empty result for user without history, got %v", texts)
	}
}

func TestRetrieveDefaultLimit(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRetriever(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		seedMessage(t, st, "alice", "recurring topic", base.Add(time.Duration(i)*time.Second))
	}

	texts, err := r.Retrieve(ctx, "alice", "topic", 0)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(texts) != DefaultLimit {
		t.Fatalf("expected %d results, got %d", DefaultLimit, len(texts))
	}
}

func TestRetrieveUnavailableStore(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRetriever(t)

	// A closed store must surface as ErrStoreUnavailable so callers can
	// degrade to "no context".
	st.Close()

	_, err := r.Retrieve(ctx, "alice", "anything", 5)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
