package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/wentitech/wentitech/internal/theme"
	"github.com/wentitech/wentitech/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Theme      string // "light", "dark", or "" (let the inline script decide)
	Dark       bool
	ThemeLabel string
	BasePath   string
	Section    string // active nav section on the landing page
	Year       int
}

// pageCache maps a render key (e.g. "landing.html") to a compiled template
// set containing base.html + partials + that one page file. Each page gets
// its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		pageCache[filepath.Base(p)] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

// newBasePage builds the layout data. dark is only meaningful when known;
// with known false the theme attribute is left for the inline script.
func newBasePage(basePath string, dark, known bool) BasePage {
	bp := BasePage{
		Dark:       dark,
		ThemeLabel: theme.ToggleLabel(dark),
		BasePath:   basePath,
		Year:       time.Now().Year(),
	}
	if known {
		bp.Theme = theme.NameOf(dark)
	}
	return bp
}

// render executes a full-page template (base layout + named page).
func render(w http.ResponseWriter, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}
