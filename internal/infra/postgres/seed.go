package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"trivia-quiz-service/internal/domain"
)

// BankRow is the question_banks table row. Data is stored as JSON by bun.
type BankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	ID        string              `bun:"id,pk"`
	Data      domain.QuestionBank `bun:"data,type:jsonb"`
	UpdatedAt time.Time           `bun:"updated_at"`
}

// SeedBank inserts or replaces a bank.
func SeedBank(ctx context.Context, db bun.IDB, bank domain.QuestionBank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	row := &BankRow{ID: bank.ID, Data: bank, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed bank %s: %w", bank.ID, err)
	}
	return nil
}
