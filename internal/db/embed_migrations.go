package db

import "embed"

// MigrationFS contiene los archivos SQL de internal/db/migrations.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
