package cmd

import (
	"context"
	"fmt"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/questiongen"
	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
	"github.com/quizwiz/quizwiz/internal/supply"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Top up the question bank for one topic without playing",
	Long:  "Generates questions until the bank holds at least --count for the scope, split across difficulties.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := scopeFromFlags(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			return fmt.Errorf("count must be positive, got %d", count)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("seeding needs an LLM provider: %w", err)
		}

		questions := st.Questions()
		targets := supply.SplitCounts(count, quiz.DefaultMix())

		shortfall := quiz.Shortfall{}
		for difficulty, target := range targets {
			difficulty := difficulty
			have, err := questions.Count(ctx, scope, &difficulty)
			if err != nil {
				return fmt.Errorf("count bank: %w", err)
			}
			if have < target {
				shortfall[difficulty] = target - have
			}
		}

		if shortfall.Total() == 0 {
			fmt.Printf("Bank already holds %d+ questions for %s.\n", count, scope)
			return nil
		}

		fmt.Printf("Generating %d questions for %s...\n", shortfall.Total(), scope)
		gateway := questiongen.New(provider, questions, questiongen.DefaultConfig())
		generated, err := gateway.Fill(ctx, scope, shortfall, nil)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		fmt.Printf("Added %d new questions.\n", len(generated))
		return nil
	},
}

func init() {
	addScopeFlags(seedCmd)
	seedCmd.Flags().IntP("count", "n", 30, "Target bank size for the scope")
}

// scopeFromFlags builds and validates the scope shared by the seed,
// stats, and audit commands.
func scopeFromFlags(cmd *cobra.Command) (quiz.Scope, error) {
	grade, _ := cmd.Flags().GetInt("grade")
	boardStr, _ := cmd.Flags().GetString("board")
	topic, _ := cmd.Flags().GetString("topic")

	board, err := quiz.ParseBoard(boardStr)
	if err != nil {
		return quiz.Scope{}, err
	}
	scope := quiz.Scope{Grade: grade, Board: board, Topic: topic}
	if err := scope.Validate(); err != nil {
		return quiz.Scope{}, err
	}
	return scope, nil
}

func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("grade", "g", 0, "Grade level (6-12)")
	cmd.Flags().StringP("board", "b", "CBSE", "Curriculum board (CBSE, ICSE, IB)")
	cmd.Flags().StringP("topic", "t", "", "Topic, e.g. fractions")
}
