// Package migrations embeds the SQL schema migrations of each service.
// Each service keeps its own directory and its own version table.
package migrations

import "embed"

// FS holds the migration files, one directory per service
//
//go:embed order/*.sql product/*.sql
var FS embed.FS

// Service directories inside FS
const (
	Order   = "order"
	Product = "product"
)
