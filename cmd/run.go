package cmd

import (
	"fmt"
	"os"

	"github.com/quizwiz/quizwiz/internal/app"
	"github.com/quizwiz/quizwiz/internal/coach"
	"github.com/quizwiz/quizwiz/internal/history"
	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/questiongen"
	"github.com/quizwiz/quizwiz/internal/report"
	"github.com/quizwiz/quizwiz/internal/store"
	"github.com/quizwiz/quizwiz/internal/supply"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	histPath, err := history.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}
	hist := history.NewFile(histPath)

	questions := st.Questions()
	opts := app.Options{
		User: os.Getenv("QUIZWIZ_USER"),
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Quizzes will be limited to the stored question bank.")
		opts.Supply = supply.NewService(questions, nil, hist)
	} else {
		gateway := questiongen.New(provider, questions, questiongen.DefaultConfig())
		opts.Supply = supply.NewService(questions, gateway, hist)
		opts.Coach = coach.New(provider)
		opts.Reports = report.NewWorkflow(questions, report.NewLLMVerifier(provider))
	}

	return app.Run(opts)
}
