package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alphamano814/exam-jyoti/internal/bulk"
	"github.com/alphamano814/exam-jyoti/internal/config"
	"github.com/alphamano814/exam-jyoti/internal/domain"
	"github.com/alphamano814/exam-jyoti/internal/infra/postgres"
)

// NewImportCmd bulk-loads questions from a CSV file into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Bulk import questions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			questions, err := bulk.ParseQuestionsCSV(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			for _, q := range questions {
				if q.Category != "" && !domain.ValidCategory(string(q.Category)) {
					return fmt.Errorf("question %q: unknown category %q", q.Prompt, q.Category)
				}
			}

			db := postgres.NewBunDB(cfg.Postgres.URL)
			defer db.Close()

			store := postgres.NewAdminStore(db)
			n, err := store.ImportQuestions(cmd.Context(), questions)
			if err != nil {
				return err
			}
			log.Printf("imported %d questions", n)
			return nil
		},
	}
}
