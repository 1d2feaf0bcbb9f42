// Package migrations embeds the SQL schema migrations applied by cmd/migrate.
package migrations

import "embed"

// Postgres holds the golang-migrate files for the Postgres save store,
// rooted at "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS
