// Package migrations embeds the PostgreSQL schema and applies it.
package migrations

import "embed"

// FS holds the schema scripts, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
