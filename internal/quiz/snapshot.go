package quiz

import "trivia-quiz-service/internal/domain"

// QuestionView is a question as shown while it is being asked.
type QuestionView struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Snapshot is the renderer-facing JSON form of a State.
type Snapshot struct {
	Stage            string           `json:"stage"`
	UserName         string           `json:"userName"`
	CurrentQuestion  *QuestionView    `json:"currentQuestion"`
	PreviousQuestion *domain.Question `json:"previousQuestion"`
	GradedQuestion   *domain.Question `json:"gradedQuestion"`
	IsCorrect        *bool            `json:"isCorrect"`
	TotalCorrect     int              `json:"totalCorrect"`
	TotalIncorrect   int              `json:"totalIncorrect"`
	QuestionsAsked   []int            `json:"questionsAsked"`
	TotalQuestions   int              `json:"totalQuestions"`
}

// Snapshot converts the state for remote renderers. The current answer is withheld.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Stage:          s.Stage().String(),
		UserName:       s.UserName,
		TotalCorrect:   s.TotalCorrect,
		TotalIncorrect: s.TotalIncorrect(),
		QuestionsAsked: append([]int{}, s.Asked...),
		TotalQuestions: len(s.Questions),
	}
	if q, ok := s.CurrentQuestion(); ok {
		snap.CurrentQuestion = &QuestionView{ID: q.ID, Text: q.Text, Category: q.Category}
	}
	if q, ok := s.PreviousQuestion(); ok {
		snap.PreviousQuestion = &q
	}
	if q, ok := s.GradedQuestion(); ok {
		snap.GradedQuestion = &q
	}
	if correct, ok := s.IsCorrect(); ok {
		snap.IsCorrect = &correct
	}
	return snap
}
