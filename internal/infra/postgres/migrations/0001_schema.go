package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(schemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS upcoming_exams;
				DROP TABLE IF EXISTS leaderboard;
				DROP TABLE IF EXISTS quiz_results;
				DROP TABLE IF EXISTS questions`)
			return err
		},
	)
}
