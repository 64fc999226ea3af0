// Package db embeds the SQL migrations so production builds can run them
// without the source tree present. The embed_migrations build tag selects
// the embedded copy.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
