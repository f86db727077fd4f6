// Package migrations embeds the ordered SQL schema applied by database.Migrator.
package migrations

import "embed"

// Files holds every *.sql migration shipped with the binary.
//
//go:embed *.sql
var Files embed.FS
