package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question bank statistics for one topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := scopeFromFlags(cmd)
		if err != nil {
			return err
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
		questions := st.Questions()

		fmt.Printf("Question bank for %s\n", scope)
		fmt.Println(strings.Repeat("─", 40))

		total := 0
		for _, difficulty := range quiz.Difficulties {
			difficulty := difficulty
			n, err := questions.Count(ctx, scope, &difficulty)
			if err != nil {
				return fmt.Errorf("count %s: %w", difficulty, err)
			}
			fmt.Printf("%-8s  %5d\n", difficulty, n)
			total += n
		}
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-8s  %5d\n", "Valid", total)

		invalid, err := st.Questions().CountInvalid(ctx, store.InvalidFilter{
			Grade: scope.Grade,
			Board: scope.Board,
			Topic: scope.Topic,
		})
		if err != nil {
			return fmt.Errorf("count invalid: %w", err)
		}
		fmt.Printf("%-8s  %5d\n", "Retired", invalid)

		return nil
	},
}

func init() {
	addScopeFlags(statsCmd)
}
