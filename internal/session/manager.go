package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Jayasurya1108/newRag/internal/adapter/llm"
	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/internal/retrieval"
	"github.com/Jayasurya1108/newRag/internal/store"
)

// Manager owns the live sessions, keyed by opaque bearer token. Sessions
// have an explicit lifecycle: created on login, destroyed on logout or
// process end.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store     store.Store
	retriever *retrieval.Retriever
	llmClient llm.LLMClient
	notifier  Notifier
	opts      Options
}

// NewManager creates a session manager.
func NewManager(st store.Store, retriever *retrieval.Retriever, client llm.LLMClient, notifier Notifier, opts Options) *Manager {
	if opts.RetrieveLimit <= 0 {
		opts.RetrieveLimit = retrieval.DefaultLimit
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		store:     st,
		retriever: retriever,
		llmClient: client,
		notifier:  notifier,
		opts:      opts,
	}
}

// Create starts a session for an authenticated user with a fresh model
// conversation handle, and returns the bearer token that identifies it.
func (m *Manager) Create(username string) (string, *Session) {
	s := &Session{
		username:     username,
		conversation: llm.StartConversation(m.llmClient, nil),
		store:        m.store,
		retriever:    m.retriever,
		notifier:     m.notifier,
		opts:         m.opts,
	}
	token := uuid.New().String()

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token, s
}

// Get resolves a token to its live session.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Destroy discards the session for token, dropping its in-memory view and
// conversation handle. Persisted history is untouched.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
