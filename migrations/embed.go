// Package migrations holds the QuestDB schema, embedded into cmd/migrate.
package migrations

import "embed"

// FS contains every *.up.sql / *.down.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
