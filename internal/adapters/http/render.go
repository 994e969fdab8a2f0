package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/adapters/http/middleware"
	"dojo/internal/domain/access"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts note text to HTML, escaping it verbatim on failure.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var templateFuncs = template.FuncMap{
	"renderMarkdown": renderMarkdown,
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"shiftDate": func(iso string) string {
		d, err := time.Parse("2006-01-02", iso)
		if err != nil {
			return iso
		}
		return d.Format("Mon 02 Jan 2006")
	},
}

// parsePages parses each page template together with the shared layout.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		tpl, err := template.New(base).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		pages[base] = tpl
	}
	return pages, nil
}

// page is the value every template receives.
type page struct {
	Title     string
	User      *access.Identity
	Flash     *flash.Message
	CSRFField template.HTML
	Data      any
}

// render writes a full page. A pending flash is consumed unless notice is
// given, which replaces it for pages that report problems without a redirect.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, data any, notice *flash.Message) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}

	p := page{
		Title:     title,
		Flash:     notice,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		p.User = sess.Identity()
	}
	if p.Flash == nil {
		if m, ok := s.flashes.Pop(w, r); ok {
			p.Flash = &m
		}
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
