package domain

import (
	"fmt"
	"strings"
)

// DefaultBankID names the built-in question bank.
const DefaultBankID = "default"

// Question is a single free-text trivia question.
type Question struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// QuestionBank is an ordered, read-only set of questions served by one quiz.
type QuestionBank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// BankSummary describes a bank without revealing its answers.
type BankSummary struct {
	ID            string   `json:"id"`
	QuestionCount int      `json:"questionCount"`
	Categories    []string `json:"categories"`
}

// Validate checks that question ids are unique and every question can be asked and answered.
func (b QuestionBank) Validate() error {
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidBank, q.ID)
		}
		if q.Answer == "" {
			return fmt.Errorf("%w: question %d has no answer", ErrInvalidBank, q.ID)
		}
	}
	return nil
}

// Summary lists the bank's categories in first-seen order.
func (b QuestionBank) Summary() BankSummary {
	categories := make([]string, 0)
	seen := make(map[string]struct{})
	for _, q := range b.Questions {
		if q.Category == "" {
			continue
		}
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}
	return BankSummary{
		ID:            b.ID,
		QuestionCount: len(b.Questions),
		Categories:    categories,
	}
}

// DefaultBank returns the five-question seed bank.
func DefaultBank() QuestionBank {
	return QuestionBank{
		ID: DefaultBankID,
		Questions: []Question{
			{ID: 1, Text: "What is 2 + 2?", Answer: "4", Category: "easy"},
			{ID: 2, Text: "What color is the sky?", Answer: "blue", Category: "easy"},
			{ID: 3, Text: "What is the capital of France?", Answer: "Paris", Category: "easy"},
			{ID: 4, Text: "What planet do we live on?", Answer: "Earth", Category: "easy"},
			{ID: 5, Text: "What is H2O?", Answer: "water", Category: "easy"},
		},
	}
}
