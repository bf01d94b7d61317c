package quiz_test

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/quiz"
)

// firstPicker always takes the first remaining question, serving the bank in order.
type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

func mustReduce(t *testing.T, s quiz.State, a quiz.Action) quiz.State {
	t.Helper()
	next, err := quiz.Reduce(s, a, firstPicker{})
	if err != nil {
		t.Fatalf("reduce %s: %v", a.Kind(), err)
	}
	return next
}

func TestSetUserName(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.SetUserName{Name: "Ada"})
	if s.UserName != "Ada" {
		t.Fatalf("expected Ada, got %q", s.UserName)
	}
	if s.Stage() != quiz.StageStart {
		t.Fatalf("setting a name must not leave start, got %s", s.Stage())
	}

	s = mustReduce(t, s, quiz.SetUserName{Name: ""})
	if s.UserName != "" {
		t.Fatalf("expected empty name to be accepted, got %q", s.UserName)
	}
}

func TestNextQuestionNeverRepeats(t *testing.T) {
	bank := domain.DefaultBank()
	for seed := int64(0); seed < 50; seed++ {
		pick := rand.New(rand.NewSource(seed))
		s := quiz.NewState(bank.Questions)
		seen := map[int]bool{}

		for i := 0; i < len(bank.Questions); i++ {
			var err error
			s, err = quiz.Reduce(s, quiz.NextQuestion{}, pick)
			if err != nil {
				t.Fatalf("seed %d: next: %v", seed, err)
			}
			q, ok := s.CurrentQuestion()
			if !ok {
				t.Fatalf("seed %d: expected question %d to be served", seed, i+1)
			}
			if seen[q.ID] {
				t.Fatalf("seed %d: question %d served twice", seed, q.ID)
			}
			seen[q.ID] = true
			if len(s.Asked) != i+1 || s.Asked[i] != q.ID {
				t.Fatalf("seed %d: asked list %v does not end with %d", seed, s.Asked, q.ID)
			}
		}

		s, _ = quiz.Reduce(s, quiz.NextQuestion{}, pick)
		if s.Stage() != quiz.StageCompleted {
			t.Fatalf("seed %d: expected completed after %d questions, got %s", seed, len(bank.Questions), s.Stage())
		}
		if len(s.Remaining()) != 0 {
			t.Fatalf("seed %d: expected no remaining questions", seed)
		}
	}
}

func TestNextQuestionTracksPrevious(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	if _, ok := s.PreviousQuestion(); ok {
		t.Fatalf("first question must not have a previous one")
	}

	s = mustReduce(t, s, quiz.NextQuestion{})
	prev, ok := s.PreviousQuestion()
	if !ok || prev.ID != 1 {
		t.Fatalf("expected previous question 1, got %+v (ok=%v)", prev, ok)
	}
	cur, _ := s.CurrentQuestion()
	if cur.ID != 2 {
		t.Fatalf("expected current question 2, got %d", cur.ID)
	}
}

func TestNextQuestionAfterCompletionChangesNothing(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	for i := 0; i < 6; i++ {
		s = mustReduce(t, s, quiz.NextQuestion{})
	}
	if s.Stage() != quiz.StageCompleted {
		t.Fatalf("expected completed, got %s", s.Stage())
	}

	again := mustReduce(t, s, quiz.NextQuestion{})
	again = mustReduce(t, again, quiz.NextQuestion{})
	if !reflect.DeepEqual(s, again) {
		t.Fatalf("completed state changed:\nbefore %+v\nafter  %+v", s, again)
	}
}

func TestEmptyBankCompletesImmediately(t *testing.T) {
	s := quiz.NewState(nil)
	s = mustReduce(t, s, quiz.NextQuestion{})
	if s.Stage() != quiz.StageCompleted {
		t.Fatalf("expected completed, got %s", s.Stage())
	}
	if _, ok := s.PreviousQuestion(); ok {
		t.Fatalf("empty bank has no previous question")
	}
}

func TestSubmitAnswerIsCaseInsensitive(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	s = mustReduce(t, s, quiz.NextQuestion{})
	s = mustReduce(t, s, quiz.NextQuestion{})
	if cur, _ := s.CurrentQuestion(); cur.Answer != "Paris" {
		t.Fatalf("expected the capital question, got %+v", cur)
	}

	s = mustReduce(t, s, quiz.SubmitAnswer{Answer: "PARIS"})
	if correct, ok := s.IsCorrect(); !ok || !correct {
		t.Fatalf("expected PARIS to match Paris")
	}
	if s.TotalCorrect != 1 {
		t.Fatalf("expected 1 correct, got %d", s.TotalCorrect)
	}
}

func TestSubmitAnswerRequiresActiveQuestion(t *testing.T) {
	start := quiz.NewState(domain.DefaultBank().Questions)
	got, err := quiz.Reduce(start, quiz.SubmitAnswer{Answer: "4"}, firstPicker{})
	if !errors.Is(err, domain.ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion in start, got %v", err)
	}
	if !reflect.DeepEqual(got, start) {
		t.Fatalf("failed submit changed state")
	}

	done := quiz.NewState([]domain.Question{{ID: 9, Text: "x?", Answer: "x"}})
	done = mustReduce(t, done, quiz.NextQuestion{})
	done = mustReduce(t, done, quiz.NextQuestion{})
	if _, err := quiz.Reduce(done, quiz.SubmitAnswer{Answer: "x"}, firstPicker{}); !errors.Is(err, domain.ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion once completed, got %v", err)
	}
}

func TestSubmitAnswerOncePerQuestion(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	s = mustReduce(t, s, quiz.SubmitAnswer{Answer: "4"})

	got, err := quiz.Reduce(s, quiz.SubmitAnswer{Answer: "4"}, firstPicker{})
	if !errors.Is(err, domain.ErrQuestionAlreadyAnswered) {
		t.Fatalf("expected ErrQuestionAlreadyAnswered, got %v", err)
	}
	if got.TotalCorrect != 1 {
		t.Fatalf("second submit must not score, total %d", got.TotalCorrect)
	}
}

func TestTotalCorrectCountsOnlyCorrectAnswers(t *testing.T) {
	answers := []string{"4", "green", "paris", "Mars", "WATER"}
	wantDelta := []int{1, 0, 1, 0, 1}

	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	for i, answer := range answers {
		before := s.TotalCorrect
		s = mustReduce(t, s, quiz.SubmitAnswer{Answer: answer})
		if got := s.TotalCorrect - before; got != wantDelta[i] {
			t.Fatalf("answer %q: expected delta %d, got %d", answer, wantDelta[i], got)
		}
		if s.TotalCorrect > len(s.Asked) {
			t.Fatalf("total correct %d exceeds asked %d", s.TotalCorrect, len(s.Asked))
		}
		s = mustReduce(t, s, quiz.NextQuestion{})
	}
}

func TestUnknownActionIsIdentity(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})

	got, err := quiz.Reduce(s, quiz.Unknown{Name: "RESET"}, firstPicker{})
	if err != nil {
		t.Fatalf("unknown action must not fail: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("unknown action changed state")
	}
}

func TestEarlierSnapshotsAreNotMutated(t *testing.T) {
	s1 := quiz.NewState(domain.DefaultBank().Questions)
	s1 = mustReduce(t, s1, quiz.NextQuestion{})
	s2 := mustReduce(t, s1, quiz.NextQuestion{})
	_ = mustReduce(t, s1, quiz.NextQuestion{})

	if len(s1.Asked) != 1 || s1.Asked[0] != 1 {
		t.Fatalf("first snapshot mutated: %v", s1.Asked)
	}
	if len(s2.Asked) != 2 {
		t.Fatalf("second snapshot mutated: %v", s2.Asked)
	}
}

func TestScenarioFirstCorrectAnswer(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.SetUserName{Name: "Ada"})
	if s.UserName != "Ada" {
		t.Fatalf("expected Ada, got %q", s.UserName)
	}

	s = mustReduce(t, s, quiz.NextQuestion{})
	cur, ok := s.CurrentQuestion()
	if !ok || cur.ID != 1 || cur.Text != "What is 2 + 2?" {
		t.Fatalf("expected question 1, got %+v", cur)
	}
	if !reflect.DeepEqual(s.Asked, []int{1}) {
		t.Fatalf("expected asked [1], got %v", s.Asked)
	}

	s = mustReduce(t, s, quiz.SubmitAnswer{Answer: "4"})
	if correct, ok := s.IsCorrect(); !ok || !correct {
		t.Fatalf("expected correct verdict")
	}
	if s.TotalCorrect != 1 {
		t.Fatalf("expected 1 correct, got %d", s.TotalCorrect)
	}
}

func TestScenarioExhaustBank(t *testing.T) {
	answers := []string{"4", "BLUE", "london", "earth", "fire"}

	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.SetUserName{Name: "Ada"})
	s = mustReduce(t, s, quiz.NextQuestion{})
	for _, answer := range answers {
		s = mustReduce(t, s, quiz.SubmitAnswer{Answer: answer})
		s = mustReduce(t, s, quiz.NextQuestion{})
	}

	if s.Stage() != quiz.StageCompleted {
		t.Fatalf("expected completed, got %s", s.Stage())
	}
	if _, ok := s.CurrentQuestion(); ok {
		t.Fatalf("completed quiz must not have a current question")
	}
	if _, ok := s.PreviousQuestion(); !ok {
		t.Fatalf("completed quiz must keep a previous question")
	}
	if s.TotalCorrect != 3 {
		t.Fatalf("expected 3 correct, got %d", s.TotalCorrect)
	}
	if s.TotalIncorrect() != 2 || len(s.Questions)-s.TotalCorrect != 2 {
		t.Fatalf("expected 2 incorrect, got %d", s.TotalIncorrect())
	}
	if correct, ok := s.IsCorrect(); !ok || correct {
		t.Fatalf("expected the last verdict to be incorrect")
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		kind, payload string
		want          quiz.Action
	}{
		{"setUserName", "Ada", quiz.SetUserName{Name: "Ada"}},
		{"nextQuestion", "ignored", quiz.NextQuestion{}},
		{"submitAnswer", "4", quiz.SubmitAnswer{Answer: "4"}},
		{"SUBMIT_ANSWER", "4", quiz.Unknown{Name: "SUBMIT_ANSWER"}},
	}
	for _, tc := range cases {
		if got := quiz.ParseAction(tc.kind, tc.payload); got != tc.want {
			t.Fatalf("ParseAction(%q): expected %#v, got %#v", tc.kind, tc.want, got)
		}
	}
}

func TestMatchAnswer(t *testing.T) {
	cases := []struct {
		given, expected string
		want            bool
	}{
		{"PARIS", "Paris", true},
		{"paris", "Paris", true},
		{"Water", "water", true},
		{" Paris", "Paris", false},
		{"Paris.", "Paris", false},
		{"", "4", false},
	}
	for _, tc := range cases {
		if got := quiz.MatchAnswer(tc.given, tc.expected); got != tc.want {
			t.Fatalf("MatchAnswer(%q, %q) = %v, want %v", tc.given, tc.expected, got, tc.want)
		}
	}
}

func TestGradedQuestionFollowsVerdict(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	if _, ok := s.GradedQuestion(); ok {
		t.Fatalf("nothing graded before the first submission")
	}

	s = mustReduce(t, s, quiz.SubmitAnswer{Answer: "4"})
	if q, ok := s.GradedQuestion(); !ok || q.ID != 1 {
		t.Fatalf("expected question 1 graded right after submitting, got %+v", q)
	}

	// skipping question 2 keeps the verdict on question 1
	s = mustReduce(t, s, quiz.NextQuestion{})
	s = mustReduce(t, s, quiz.NextQuestion{})
	prev, _ := s.PreviousQuestion()
	graded, _ := s.GradedQuestion()
	if prev.ID != 2 || graded.ID != 1 {
		t.Fatalf("expected previous 2 and graded 1, got previous %d graded %d", prev.ID, graded.ID)
	}
}

func TestCompletedKeepsLastGradedQuestion(t *testing.T) {
	s := quiz.NewState(domain.DefaultBank().Questions)
	s = mustReduce(t, s, quiz.NextQuestion{})
	for _, answer := range []string{"4", "blue", "paris", "earth", "fire"} {
		s = mustReduce(t, s, quiz.SubmitAnswer{Answer: answer})
		s = mustReduce(t, s, quiz.NextQuestion{})
	}

	prev, _ := s.PreviousQuestion()
	if prev.ID != 4 {
		t.Fatalf("completion must leave previous untouched, got %d", prev.ID)
	}
	graded, ok := s.GradedQuestion()
	if !ok || graded.ID != 5 {
		t.Fatalf("expected the final question to carry the verdict, got %+v", graded)
	}
	if correct, _ := s.IsCorrect(); correct {
		t.Fatalf("expected the final answer to be incorrect")
	}
	if snap := s.Snapshot(); snap.GradedQuestion == nil || snap.GradedQuestion.ID != 5 {
		t.Fatalf("expected snapshot to name the graded question, got %+v", snap.GradedQuestion)
	}
}
