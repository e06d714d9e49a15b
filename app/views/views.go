// Package views embeds the HTML templates of the application.
package views

import "embed"

//go:embed *.html
var FS embed.FS
