package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/agentstation/luga/internal/server/response"
	"github.com/agentstation/luga/pkg/reconcile"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Title          string
	Version        string
	PathPrefix     string
	MaxUploadBytes int64
	Labels         map[string]string
}

// HandleIndex handles GET / and renders the upload page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Title:          "Antica Farmacia Lugaresi",
		Version:        h.version,
		PathPrefix:     h.prefix,
		MaxUploadBytes: h.maxUploadBytes,
		Labels: map[string]string{
			"notExposed": reconcile.ChartNotExposed,
			"exposed":    reconcile.ChartExposed,
			"unmatched":  reconcile.ChartUnmatched,
		},
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render index page")
		response.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	_, _ = w.Write(buf.Bytes())
}
