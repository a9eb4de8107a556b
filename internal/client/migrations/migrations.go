// Package migrations embeds the goose SQL migrations that own the schema
// of the local client database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
