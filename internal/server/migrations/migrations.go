// Package migrations embeds the goose SQL files that bootstrap the schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
