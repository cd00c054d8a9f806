// Package migrations holds the SQLite schema, applied in filename
// order by the store at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
