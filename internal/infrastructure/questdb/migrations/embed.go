// Package migrations holds the QuestDB schema of the offline feature store.
package migrations

import "embed"

// Files are the *.up.sql and *.down.sql migrations.
//
//go:embed *.sql
var Files embed.FS
