// Package migrations embeds the SQLite schema files for the matchmaking
// store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
