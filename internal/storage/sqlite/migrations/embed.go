package migrations

import "embed"

// FS contains embedded SQLite migrations for admission storage.
//
//go:embed *.sql
var FS embed.FS
