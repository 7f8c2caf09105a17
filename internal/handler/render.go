package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"food-ordering/internal/session"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// View is the data every page template receives.
type View struct {
	Title   string
	Flash   string
	Error   string
	Session *session.Session
	Form    url.Values
	Data    any
}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	pages    map[string]*template.Template
	sessions *session.Manager
	logger   zerolog.Logger
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

// NewRenderer parses the embedded templates.
func NewRenderer(sessions *session.Manager, logger zerolog.Logger) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}

		t, err := template.Must(layout.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{
		pages:    pages,
		sessions: sessions,
		logger:   logger.With().Str("component", "renderer").Logger(),
	}, nil
}

// Render writes page with the given status, consuming any pending flash.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, v View) {
	t, ok := rn.pages[page]
	if !ok {
		rn.logger.Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if s, ok := session.FromContext(r.Context()); ok {
		v.Session = s
	}

	var buf bytes.Buffer
	flash := rn.sessions.PeekFlash(r)
	v.Flash = flash
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		rn.logger.Error().Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if flash != "" {
		rn.sessions.ClearFlash(w)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rn.logger.Debug().Err(err).Str("page", page).Msg("failed to write response")
	}
}
