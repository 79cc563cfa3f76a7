// Package session holds the live, in-memory representation of one
// authenticated user's ongoing conversation and drives each submitted turn
// to completion.
package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jayasurya1108/newRag/internal/adapter/llm"
	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/internal/retrieval"
	"github.com/Jayasurya1108/newRag/internal/store"
)

// Notifier receives every turn appended to a session's in-memory view.
// Implementations fan the turn out to connected clients.
type Notifier interface {
	TurnAppended(username string, turn domain.DisplayTurn)
}

// Options bound the retrieval-augmentation step.
type Options struct {
	// RetrieveLimit is the number of past messages fetched per query.
	RetrieveLimit int
	// ContextCharLimit caps the total length of retrieved context joined
	// into the augmented prompt. Zero means no cap.
	ContextCharLimit int
}

// Session is one authenticated user's live conversation. Created at login,
// discarded at logout; persisted history is untouched by either transition.
// A session processes one submitted turn to completion before the next:
// mu serializes the whole interaction cycle against overlapping submits
// and view reads on the same bearer token.
type Session struct {
	mu           sync.Mutex
	username     string
	turns        []domain.DisplayTurn
	conversation *llm.Conversation
	store        store.Store
	retriever    *retrieval.Retriever
	notifier     Notifier
	opts         Options
}

// Username returns the owning user.
func (s *Session) Username() string {
	return s.username
}

// View returns the ordered snapshot of display turns for the presentation
// boundary. Recomputed callers render this after every mutation. A view
// taken while a turn is in flight waits for the cycle to complete.
func (s *Session) View() []domain.DisplayTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DisplayTurn(nil), s.turns...)
}

// Submit processes one user utterance: persist it, retrieve related past
// turns, compose the augmented prompt, record the debug turn, call the
// model, and persist the reply. Every successful call appends exactly three
// messages to both the store and the in-memory view: user, system/debug,
// assistant. A store write failure aborts the interaction cycle; a model
// failure is converted into a visible reply and the conversation continues.
// Concurrent submits on one session run strictly one after the other.
func (s *Session) Submit(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.append(ctx, domain.RoleUser, text, nil); err != nil {
		return "", err
	}

	retrieved, err := s.retriever.Retrieve(ctx, s.username, text, s.opts.RetrieveLimit)
	if err != nil {
		// Degrade to an unaugmented prompt rather than losing the turn.
		log.Printf("WARN: retrieval failed for %s, continuing without context: %v", s.username, err)
		retrieved = nil
	}

	augmented := s.composePrompt(retrieved, text)

	if err := s.append(ctx, domain.RoleSystem, augmented, retrieved); err != nil {
		return "", err
	}

	reply, err := s.conversation.Send(ctx, augmented)
	if err != nil {
		// Surfaced inline as the reply; never retried.
		reply = fmt.Sprintf("Error: %v", err)
	}

	if err := s.append(ctx, domain.RoleAssistant, reply, nil); err != nil {
		return "", err
	}
	return reply, nil
}

// append durably stores a message, then grows the in-memory view. Store
// first: a crash loses at most the in-flight turn, never a turn the view
// already shows.
func (s *Session) append(ctx context.Context, role domain.Role, text string, retrieved []string) error {
	msg := &domain.Message{
		MessageID: uuid.New().String(),
		Username:  s.username,
		Role:      role,
		Text:      text,
		Retrieved: retrieved,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to store %s message: %w", role, err)
	}

	turn := domain.TurnOf(*msg)
	s.turns = append(s.turns, turn)
	if s.notifier != nil {
		s.notifier.TurnAppended(s.username, turn)
	}
	return nil
}

// composePrompt joins retrieved context ahead of the new text. The context
// portion honors ContextCharLimit, keeping most recent matches first; the
// new text is never truncated.
func (s *Session) composePrompt(retrieved []string, text string) string {
	if len(retrieved) == 0 {
		return text
	}

	kept := retrieved
	if limit := s.opts.ContextCharLimit; limit > 0 {
		kept = kept[:0:0]
		total := 0
		for _, t := range retrieved {
			if total+len(t) > limit {
				break
			}
			kept = append(kept, t)
			total += len(t) + 1
		}
		if len(kept) == 0 {
			return text
		}
	}
	return strings.Join(kept, " ") + " " + text
}
