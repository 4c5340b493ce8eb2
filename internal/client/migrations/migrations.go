// Package migrations embeds the SQL migrations of the client-side SQLite
// database. They are applied with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
