package migrations

import (
	_ "embed"

	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_schema.sql
var schemaSQL string

var Migrations = migrate.NewMigrations()
