// Package appfs embeds the static assets shipped with the binaries.
package appfs

import "embed"

// Files named by a glob are embedded even when they start with "_" (the template bases).
//go:embed migrations/*.sql templates/email/*.txt templates/email/*.gohtml
var FS embed.FS
