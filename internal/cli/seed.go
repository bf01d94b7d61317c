package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/postgres"
	"trivia-quiz-service/internal/infra/sqlite"
)

// NewSeedCmd writes a question bank into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file, source string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a question bank in postgres or sqlite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if source != "" {
				cfg.Bank.Source = source
			}
			bank := domain.DefaultBank()
			if file != "" {
				if bank, err = loadBankFile(file); err != nil {
					return err
				}
			}
			return runSeed(cmd.Context(), cfg, bank)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML or JSON bank file (default: built-in bank)")
	cmd.Flags().StringVar(&source, "source", "", "postgres or sqlite (default: bank.source)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, bank domain.QuestionBank) error {
	switch cfg.Bank.Source {
	case config.SourcePostgres:
		db, err := openBunDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrateDB(ctx, db); err != nil {
			return err
		}
		if err := postgres.SeedBank(ctx, db, bank); err != nil {
			return err
		}
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlite.NewBankLoader(db).SaveBank(ctx, bank); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot seed bank source %q", cfg.Bank.Source)
	}
	log.Printf("seeded bank %q (%d questions) into %s", bank.ID, len(bank.Questions), cfg.Bank.Source)
	return nil
}

// loadBankFile reads a bank from YAML. JSON files parse too.
func loadBankFile(path string) (domain.QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.QuestionBank{}, err
	}
	var bank domain.QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if bank.ID == "" {
		bank.ID = domain.DefaultBankID
	}
	if err := bank.Validate(); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}
