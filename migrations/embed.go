package migrations

import "embed"

// Files holds the forward-only SQL migrations for the SQLite record store.
//
//go:embed *.sql
var Files embed.FS
