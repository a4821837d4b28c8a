package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
)

//go:embed templates/layout.html templates/pages/*.html
var files embed.FS

// Page is the envelope every template receives.
type Page struct {
	Title string
	User  *models.User
	Flash *middleware.Flash
	Data  interface{}
}

type Renderer struct {
	templates map[string]*template.Template
	logger    zerolog.Logger
}

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("Jan 2, 2006 15:04")
	},
}

// New parses the embedded template set. Each page is parsed together with
// the shared layout so pages can override the "content" block.
func New(logger zerolog.Logger) (*Renderer, error) {
	pages, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(files, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Renderer{
		templates: templates,
		logger:    logger,
	}, nil
}

// HTML renders a page template into the layout. The template executes into a
// buffer first so a render error can still produce a clean 500.
func (r *Renderer) HTML(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.templates[name]
	if !ok {
		r.logger.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		r.logger.Error().Err(err).Str("template", name).Msg("Template render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
