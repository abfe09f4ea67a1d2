// Package web holds the console templates and static assets.
package web

import "embed"

// EmbeddedFS serves templates/ and static/ in release builds.
//
//go:embed templates static
var EmbeddedFS embed.FS
