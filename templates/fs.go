package templates

import "embed"

// FS holds the page layouts, partials and pages.
//
//go:embed layouts partials pages
var FS embed.FS
