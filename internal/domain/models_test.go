package domain

import (
	"errors"
	"testing"
)

func TestDefaultBankIsValid(t *testing.T) {
	bank := DefaultBank()
	if err := bank.Validate(); err != nil {
		t.Fatalf("default bank invalid: %v", err)
	}
	if len(bank.Questions) != 5 {
		t.Fatalf("expected 5 seed questions, got %d", len(bank.Questions))
	}
	for i, q := range bank.Questions {
		if q.ID != i+1 {
			t.Fatalf("expected id %d at position %d, got %d", i+1, i, q.ID)
		}
	}
}

func TestValidateRejectsBrokenBanks(t *testing.T) {
	cases := map[string]QuestionBank{
		"duplicate id": {ID: "b", Questions: []Question{
			{ID: 1, Text: "a?", Answer: "a"},
			{ID: 1, Text: "b?", Answer: "b"},
		}},
		"no text":   {ID: "b", Questions: []Question{{ID: 1, Text: "  ", Answer: "a"}}},
		"no answer": {ID: "b", Questions: []Question{{ID: 1, Text: "a?"}}},
	}
	for name, bank := range cases {
		if err := bank.Validate(); !errors.Is(err, ErrInvalidBank) {
			t.Fatalf("%s: expected ErrInvalidBank, got %v", name, err)
		}
	}
}

func TestSummaryHidesAnswers(t *testing.T) {
	bank := QuestionBank{ID: "mixed", Questions: []Question{
		{ID: 1, Text: "a?", Answer: "a", Category: "easy"},
		{ID: 2, Text: "b?", Answer: "b", Category: "hard"},
		{ID: 3, Text: "c?", Answer: "c", Category: "easy"},
	}}
	summary := bank.Summary()
	if summary.QuestionCount != 3 {
		t.Fatalf("expected 3 questions, got %d", summary.QuestionCount)
	}
	if len(summary.Categories) != 2 || summary.Categories[0] != "easy" || summary.Categories[1] != "hard" {
		t.Fatalf("unexpected categories %v", summary.Categories)
	}
}
