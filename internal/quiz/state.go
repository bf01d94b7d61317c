// Package quiz holds the quiz state machine: the state record, the actions that change it,
// the pure reducer and the store that serializes dispatches and notifies subscribers.
package quiz

import (
	"slices"

	"trivia-quiz-service/internal/domain"
)

// Stage names the phase a quiz is in.
type Stage int

const (
	StageStart Stage = iota
	StageAsking
	StageCompleted
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageAsking:
		return "asking"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of the most recent answer submission.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func verdictOf(correct bool) Verdict {
	if correct {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

// Progress is the stage-specific part of State. It is one of Start, Asking or Completed.
type Progress interface {
	Stage() Stage
	progress()
}

// Start is the state before any question has been served.
type Start struct{}

// Asking holds the question awaiting an answer.
type Asking struct {
	Current  domain.Question
	Previous *domain.Question
	Verdict  Verdict
	// Graded is the question Verdict belongs to.
	Graded *domain.Question
	// Answered is set once Current has been submitted.
	Answered bool
}

// Completed is reached when the bank has no unasked questions left.
type Completed struct {
	Previous *domain.Question
	Verdict  Verdict
	Graded   *domain.Question
}

func (Start) Stage() Stage     { return StageStart }
func (Asking) Stage() Stage    { return StageAsking }
func (Completed) Stage() Stage { return StageCompleted }

func (Start) progress()     {}
func (Asking) progress()    {}
func (Completed) progress() {}

// State is an immutable snapshot of one quiz session. Slices are shared between snapshots
// and must be treated as read-only.
type State struct {
	UserName     string
	Progress     Progress
	TotalCorrect int
	Asked        []int
	Questions    []domain.Question
}

// NewState returns the start state for a bank.
func NewState(questions []domain.Question) State {
	return State{
		Progress:  Start{},
		Questions: questions,
	}
}

// Stage reports the current phase.
func (s State) Stage() Stage {
	if s.Progress == nil {
		return StageStart
	}
	return s.Progress.Stage()
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (s State) CurrentQuestion() (domain.Question, bool) {
	if p, ok := s.Progress.(Asking); ok {
		return p.Current, true
	}
	return domain.Question{}, false
}

// PreviousQuestion returns the question served before the current one, if any.
func (s State) PreviousQuestion() (domain.Question, bool) {
	var prev *domain.Question
	switch p := s.Progress.(type) {
	case Asking:
		prev = p.Previous
	case Completed:
		prev = p.Previous
	}
	if prev == nil {
		return domain.Question{}, false
	}
	return *prev, true
}

// GradedQuestion returns the question the current verdict belongs to. Between a
// submission and the next NextQuestion that is the current question, not the previous one.
func (s State) GradedQuestion() (domain.Question, bool) {
	var graded *domain.Question
	switch p := s.Progress.(type) {
	case Asking:
		graded = p.Graded
	case Completed:
		graded = p.Graded
	}
	if graded == nil {
		return domain.Question{}, false
	}
	return *graded, true
}

// Verdict returns the outcome of the latest submission.
func (s State) Verdict() Verdict {
	switch p := s.Progress.(type) {
	case Asking:
		return p.Verdict
	case Completed:
		return p.Verdict
	}
	return VerdictNone
}

// IsCorrect reports the latest verdict; ok is false when nothing has been submitted yet.
func (s State) IsCorrect() (correct, ok bool) {
	switch s.Verdict() {
	case VerdictCorrect:
		return true, true
	case VerdictIncorrect:
		return false, true
	}
	return false, false
}

// Remaining returns the questions not yet served, in bank order.
func (s State) Remaining() []domain.Question {
	out := make([]domain.Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		if !slices.Contains(s.Asked, q.ID) {
			out = append(out, q)
		}
	}
	return out
}

// TotalIncorrect is the count shown on completion: every question not answered correctly.
func (s State) TotalIncorrect() int {
	return len(s.Questions) - s.TotalCorrect
}
