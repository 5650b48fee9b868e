// Package appfs embeds the database migrations, the html/text templates and the static assets into the binaries.
package appfs

import "embed"

//go:embed migrations all:templates assets
var FS embed.FS
