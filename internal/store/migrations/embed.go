// Package migrations embeds the goose migration scripts for the session
// store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
