package http

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/medhub/clinic-frontdesk/internal/logging"
	"github.com/medhub/clinic-frontdesk/web"
)

// Pages renders the embedded page shells. All dynamic data is loaded by the
// pages themselves through the API, so templates execute without data.
type Pages struct {
	templates *template.Template
}

func NewPages() (*Pages, error) {
	templates, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Pages{templates: templates}, nil
}

// Render returns a handler serving one named template
func (p *Pages) Render(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.templates.ExecuteTemplate(w, name, nil); err != nil {
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Error("failed to render page", "template", name, "error", err.Error())
		}
	}
}

// StaticHandler serves the embedded stylesheets and scripts under /static/
func StaticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The static directory is embedded at build time; a failure here is
		// a packaging bug, not a runtime condition.
		panic(fmt.Sprintf("static assets missing from embed: %v", err))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
