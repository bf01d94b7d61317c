package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/quiz"
	"trivia-quiz-service/internal/view"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var bankID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if bankID != "" {
				cfg.Bank.ID = bankID
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return runPlay(os.Stdin, cmd.OutOrStdout(), store)
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (default: bank.id)")
	return cmd
}

func openStore(ctx context.Context, cfg config.Config) (*quiz.Store, error) {
	loader, closeLoader, err := openBankLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeLoader()
	bank, err := loader.LoadBank(ctx, cfg.Bank.ID)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", cfg.Bank.ID, err)
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return quiz.NewStore(bank.Questions, nil), nil
}

// runPlay reads one line per turn: the name first, then answers.
func runPlay(in io.Reader, out io.Writer, store *quiz.Store) error {
	fmt.Fprintln(out, view.Screen(store.State()))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()

		var first quiz.Action
		switch store.State().Stage() {
		case quiz.StageStart:
			first = quiz.SetUserName{Name: line}
		case quiz.StageAsking:
			first = quiz.SubmitAnswer{Answer: line}
		default:
			return nil
		}
		if _, err := store.Dispatch(first); err != nil {
			return err
		}
		state, err := store.Dispatch(quiz.NextQuestion{})
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, view.Screen(state))
		if state.Stage() == quiz.StageCompleted {
			return nil
		}
	}
	return scanner.Err()
}
