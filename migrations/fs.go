// Package migrations embeds the SQL migration files so a deployed binary
// can migrate without the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
