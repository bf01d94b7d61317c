package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/quiz"
)

// SessionRepository abstracts how live quiz sessions are tracked (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithPickerFactory sets how each new session gets its random source.
func WithPickerFactory(newPicker func() quiz.Picker) Option {
	return func(s *QuizService) { s.newPicker = newPicker }
}

// WithClock overrides the session start clock.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// QuizService hosts one quiz store per session.
type QuizService struct {
	sessions  SessionRepository
	banks     BankRepository
	newPicker func() quiz.Picker
	now       func() time.Time
}

func NewQuizService(sessions SessionRepository, banks BankRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:  sessions,
		banks:     banks,
		newPicker: quiz.NewRandomPicker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is a hosted quiz store and the bank it was started from.
type Session struct {
	ID        string
	BankID    string
	StartedAt time.Time
	store     *quiz.Store
}

// NewSession wraps a store; exported for infrastructure layers and tests.
func NewSession(id, bankID string, store *quiz.Store, startedAt time.Time) *Session {
	return &Session{ID: id, BankID: bankID, StartedAt: startedAt, store: store}
}

// State returns the session's current quiz state.
func (s *Session) State() quiz.State {
	return s.store.State()
}

// Start loads a bank and opens a new session on it.
func (s *QuizService) Start(ctx context.Context, bankID string) (*Session, error) {
	if bankID == "" {
		bankID = domain.DefaultBankID
	}
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}

	session := NewSession(uuid.NewString(), bankID, quiz.NewStore(bank.Questions, s.newPicker()), s.now())
	s.sessions.Put(session)
	return session, nil
}

// Dispatch applies an action to a session's store.
func (s *QuizService) Dispatch(_ context.Context, sessionID string, action quiz.Action) (quiz.State, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return quiz.State{}, domain.ErrSessionNotFound
	}
	return session.store.Dispatch(action)
}

// State returns a session's current state.
func (s *QuizService) State(_ context.Context, sessionID string) (quiz.State, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return quiz.State{}, domain.ErrSessionNotFound
	}
	return session.State(), nil
}

// Subscribe returns a channel that receives state updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan quiz.State, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.store.Subscribe()
	return ch, cancel, nil
}

// BankSummary describes a bank without its answers.
func (s *QuizService) BankSummary(ctx context.Context, bankID string) (domain.BankSummary, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.BankSummary{}, err
	}
	return bank.Summary(), nil
}

// End drops a session.
func (s *QuizService) End(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}
