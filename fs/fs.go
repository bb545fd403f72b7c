// Package appfs embeds the static assets shipped with the binary:
// database migrations, email templates and the seed course catalog.
package appfs

import "embed"

//go:embed migrations all:templates catalog.yaml
var FS embed.FS
