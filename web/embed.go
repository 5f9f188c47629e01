// Package web bundles the HTML templates and static assets served by the
// application so the binary ships self-contained.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates returns the template tree rooted at the template names the
// handlers render (e.g. "dashboard/content.html").
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the static asset tree (css, favicon).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
