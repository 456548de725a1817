package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List questions retired by confirmed defect reports",
	Long:  "Shows invalidated questions, newest report first. Omitted flags match everything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := invalidFilterFromFlags(cmd)
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
		retired, err := st.Questions().InvalidReport(ctx, filter)
		if err != nil {
			return fmt.Errorf("query invalid questions: %w", err)
		}

		if len(retired) == 0 {
			fmt.Println("No retired questions found.")
			return nil
		}

		fmt.Printf("%-19s  %-5s  %-5s  %-16s  %-8s  %s\n",
			"Reported", "Grade", "Board", "Topic", "Level", "Question")
		fmt.Println(strings.Repeat("─", 100))

		for _, q := range retired {
			reported := "?"
			if q.ReportedAt != nil {
				reported = q.ReportedAt.Local().Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-19s  %-5d  %-5s  %-16s  %-8s  %s\n",
				reported,
				q.Grade,
				q.Board,
				truncate(q.Topic, 16),
				q.Difficulty,
				truncate(q.Text, 40),
			)
		}
		return nil
	},
}

// invalidFilterFromFlags reads the optional scope narrowing. Unlike
// the seed and stats commands, every flag here may be left unset.
func invalidFilterFromFlags(cmd *cobra.Command) (store.InvalidFilter, error) {
	grade, _ := cmd.Flags().GetInt("grade")
	boardStr, _ := cmd.Flags().GetString("board")
	topic, _ := cmd.Flags().GetString("topic")

	var filter store.InvalidFilter
	filter.Grade = grade
	filter.Topic = topic
	if boardStr != "" {
		board, err := quiz.ParseBoard(boardStr)
		if err != nil {
			return store.InvalidFilter{}, err
		}
		filter.Board = board
	}
	return filter, nil
}

func init() {
	auditCmd.Flags().IntP("grade", "g", 0, "Filter by grade")
	auditCmd.Flags().StringP("board", "b", "", "Filter by board")
	auditCmd.Flags().StringP("topic", "t", "", "Filter by topic")
}
