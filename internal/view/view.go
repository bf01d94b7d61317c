// Package view renders quiz state as plain text for line-oriented views such as
// the terminal and chat bots.
package view

import (
	"fmt"
	"strings"

	"trivia-quiz-service/internal/quiz"
)

// NamePrompt asks for the player's name.
const NamePrompt = "Enter your name:"

// Greeting welcomes a named player.
func Greeting(name string) string {
	if name == "" {
		return ""
	}
	return "Hello, " + name + "!"
}

// Question renders the question awaiting an answer, or "" when none is active.
func Question(s quiz.State) string {
	q, ok := s.CurrentQuestion()
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Question %d of %d", len(s.Asked), len(s.Questions))
	if q.Category != "" {
		fmt.Fprintf(&b, " [%s]", q.Category)
	}
	fmt.Fprintf(&b, "\n%s", q.Text)
	return b.String()
}

// ResultsCard renders the verdict on the last graded question and, once the quiz is over,
// the final tally. It returns "" until there is something to report.
func ResultsCard(s quiz.State) string {
	correct, answered := s.IsCorrect()
	q, graded := s.GradedQuestion()
	completed := s.Stage() == quiz.StageCompleted

	var lines []string
	if answered && graded {
		label := "Correct Answer:"
		if correct {
			lines = append(lines, "Correct!")
			label = "Your Answer:"
		} else {
			lines = append(lines, "Incorrect!")
		}
		lines = append(lines,
			"Previous Question:",
			fmt.Sprintf("%q", q.Text),
			label,
			fmt.Sprintf("%q", q.Answer),
		)
	}
	if completed {
		lines = append(lines,
			"Quiz Completed!",
			fmt.Sprintf("Total Correct: %d", s.TotalCorrect),
			fmt.Sprintf("Total Incorrect: %d", s.TotalIncorrect()),
		)
	}
	return strings.Join(lines, "\n")
}

// Screen renders everything a text view shows for a state.
func Screen(s quiz.State) string {
	if s.UserName == "" && s.Stage() == quiz.StageStart {
		return NamePrompt
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{Greeting(s.UserName), ResultsCard(s), Question(s)} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n")
}
