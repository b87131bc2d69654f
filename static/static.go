// Package static embeds the stylesheet served under /static.
package static

import "embed"

//go:embed app.css
var FS embed.FS
