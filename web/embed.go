// Package web holds the site's templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

// TemplateFS contains base.html plus the partials/ and pages/ directories,
// all under templates/.
//
//go:embed templates
var TemplateFS embed.FS

//go:embed static
var static embed.FS

// Static returns the assets rooted at static/, so css/app.css and
// js/live.js are top-level paths.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// static is a literal embed directory; Sub cannot fail on it.
		panic(err)
	}
	return sub
}
