// Package migrations embeds the versioned postgres schema so binaries can
// migrate without shipping the SQL files alongside them.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
