// Package web carries the embedded HTML templates of the client.
package web

import "embed"

//go:embed templates/*.tmpl
var Templates embed.FS
