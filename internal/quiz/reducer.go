package quiz

import (
	"math/rand"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Picker selects an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// NewRandomPicker returns a time-seeded picker. It is not safe for concurrent use.
func NewRandomPicker() Picker {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Reduce applies an action to a state and returns the next state.
// It has no side effects; randomness comes from pick. On error the input state is returned.
func Reduce(s State, action Action, pick Picker) (State, error) {
	switch a := action.(type) {
	case SetUserName:
		s.UserName = a.Name
		return s, nil

	case NextQuestion:
		return nextQuestion(s, pick), nil

	case SubmitAnswer:
		return submitAnswer(s, a.Answer)

	default:
		return s, nil
	}
}

func nextQuestion(s State, pick Picker) State {
	remaining := s.Remaining()
	if len(remaining) == 0 {
		switch p := s.Progress.(type) {
		case Asking:
			s.Progress = Completed{Previous: p.Previous, Verdict: p.Verdict, Graded: p.Graded}
		case Completed:
		default:
			s.Progress = Completed{}
		}
		return s
	}

	chosen := remaining[pick.Intn(len(remaining))]

	next := Asking{Current: chosen}
	if p, ok := s.Progress.(Asking); ok {
		finished := p.Current
		next.Previous = &finished
		next.Verdict = p.Verdict
		next.Graded = p.Graded
	}
	s.Progress = next

	asked := make([]int, len(s.Asked), len(s.Asked)+1)
	copy(asked, s.Asked)
	s.Asked = append(asked, chosen.ID)
	return s
}

func submitAnswer(s State, answer string) (State, error) {
	p, ok := s.Progress.(Asking)
	if !ok {
		return s, domain.ErrNoActiveQuestion
	}
	if p.Answered {
		return s, domain.ErrQuestionAlreadyAnswered
	}

	correct := MatchAnswer(answer, p.Current.Answer)
	graded := p.Current
	p.Verdict = verdictOf(correct)
	p.Graded = &graded
	p.Answered = true
	s.Progress = p
	if correct {
		s.TotalCorrect++
	}
	return s, nil
}
