// Package conversation holds the per-session chat history.
package conversation

import (
	"slices"
	"sync"

	"github.com/papercomputeco/talktodo/pkg/llm"
)

// Store is the ordered, append-only history of one session. Insertion order
// is chronological order and is the order turns are sent upstream.
//
// The store does not enforce user/assistant alternation; callers that append
// a user turn are expected to follow it with exactly one assistant turn.
type Store struct {
	mu    sync.RWMutex
	turns []llm.Turn

	// turnMu serializes whole submissions, see LockTurn.
	turnMu sync.Mutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds turn to the end of the history.
func (s *Store) Append(turn llm.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
}

// All returns a copy of the full history, oldest first. Writing to or
// appending to the returned slice never changes the store.
func (s *Store) All() []llm.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.turns)
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns)
}

// LockTurn blocks until no other submission is running against this store and
// returns the function that releases it. Holding it across a user append and
// the matching assistant append keeps the pair contiguous when one session
// submits from several tabs at once.
func (s *Store) LockTurn() (unlock func()) {
	s.turnMu.Lock()
	return s.turnMu.Unlock
}
