// Package retrieval produces a bounded, relevance-ranked snippet of prior
// conversation to ground the next model call.
package retrieval

import (
	"context"
	"fmt"

	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/internal/store"
)

// DefaultLimit is the number of past messages retrieved per query.
const DefaultLimit = 5

// Retriever looks up stored messages related to a new utterance.
type Retriever struct {
	store store.Store
}

// NewRetriever creates a retriever backed by the given store.
func NewRetriever(st store.Store) *Retriever {
	return &Retriever{store: st}
}

// Retrieve returns the texts of at most k stored messages belonging to
// username whose text matches query under the store's text-search
// semantics, most recent first. Read-only; no history or no match yields
// an empty result. Store failures wrap domain.ErrStoreUnavailable so the
// caller can degrade to "no context".
func (r *Retriever) Retrieve(ctx context.Context, username, query string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultLimit
	}
	messages, err := r.store.SearchMessages(ctx, username, query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Text)
	}
	return texts, nil
}
