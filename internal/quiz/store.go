package quiz

import (
	"sync"

	"trivia-quiz-service/internal/domain"
)

// Store owns one quiz state. All changes go through Dispatch.
type Store struct {
	mu          sync.RWMutex
	state       State
	pick        Picker
	subscribers map[chan State]struct{}
}

// NewStore creates a store in the start state. A nil picker gets a time-seeded one.
func NewStore(questions []domain.Question, pick Picker) *Store {
	if pick == nil {
		pick = NewRandomPicker()
	}
	return &Store{
		state:       NewState(questions),
		pick:        pick,
		subscribers: make(map[chan State]struct{}),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces the action into the current state and publishes the result.
// Failed actions leave the state untouched and publish nothing.
func (s *Store) Dispatch(action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, action, s.pick)
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.broadcastLocked()
	return next, nil
}

// Subscribe returns a channel that receives the current state and then every update.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) broadcastLocked() {
	for ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
			// slow subscriber: drop its oldest pending state
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
}
