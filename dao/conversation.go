package dao

import (
	"sync"

	"github.com/Akra-Ai42/crispy-umbrella/models"
)

// ConversationStore is the storage seam for per-chat state. Update runs
// fn with exclusive ownership of the chat's entry, so two messages from
// the same chat can never interleave their read-modify-write; a
// persistent implementation can be substituted without touching logic.
type ConversationStore interface {
	Update(chatID int64, fn func(*models.Conversation) error) error
	Snapshot(chatID int64) (models.Conversation, bool)
	Len() int
}

// MemoryStore keeps conversations in process memory. State is lost on
// restart and the map is unbounded; both are accepted for this
// deployment scale.
type MemoryStore struct {
	mu     sync.Mutex
	convos map[int64]*entry
}

type entry struct {
	mu    sync.Mutex
	convo models.Conversation
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convos: make(map[int64]*entry)}
}

func (s *MemoryStore) getOrCreate(chatID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.convos[chatID]
	if !ok {
		e = &entry{convo: models.Conversation{ChatID: chatID, History: []models.Message{}}}
		s.convos[chatID] = e
	}
	return e
}

// Update runs fn under the conversation's own lock, creating the entry on
// first use. The lock is held for the whole of fn, including any network
// call fn makes, so turns for one chat are fully serialized.
func (s *MemoryStore) Update(chatID int64, fn func(*models.Conversation) error) error {
	e := s.getOrCreate(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.convo)
}

// Snapshot returns a deep copy of the conversation, or false if the chat
// has never been seen.
func (s *MemoryStore) Snapshot(chatID int64) (models.Conversation, bool) {
	s.mu.Lock()
	e, ok := s.convos[chatID]
	s.mu.Unlock()
	if !ok {
		return models.Conversation{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.convo
	c.History = append([]models.Message(nil), e.convo.History...)
	return c, true
}

// Len reports how many conversations are currently tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convos)
}
