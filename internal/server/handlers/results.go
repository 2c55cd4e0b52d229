package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/agentstation/luga/internal/server/cache"
	"github.com/agentstation/luga/internal/server/response"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/export"
	"github.com/agentstation/luga/pkg/logging"
	"github.com/agentstation/luga/pkg/reconcile"
)

// HandleGetResult handles GET /api/v1/results/{id}.
// The optional class query parameter filters rows, e.g.
// ?class=exposed,negative.
func (h *Handlers) HandleGetResult(w http.ResponseWriter, r *http.Request, id string) {
	entry, ok := h.lookup(w, id)
	if !ok {
		return
	}

	classes, err := parseClasses(r.URL.Query().Get("class"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, h.view(entry, classes))
}

// HandleExport handles GET /api/v1/results/{id}/export and serves the
// semicolon-delimited export as a download.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request, id string) {
	entry, ok := h.lookup(w, id)
	if !ok {
		return
	}

	logger := logging.FromContext(logging.WithResult(r.Context(), id))

	data, err := export.Bytes(entry.Result)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build export")
		response.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.MediaType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.FileName,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	logger.Debug().Int("bytes", len(data)).Msg("Serving export")
	if _, err := w.Write(data); err != nil {
		logger.Warn().Err(err).Msg("Failed to write export")
	}
}

func (h *Handlers) lookup(w http.ResponseWriter, id string) (*cache.Entry, bool) {
	entry, ok := h.results.Get(id)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("result", id))
		return nil, false
	}
	return entry, true
}

func parseClasses(s string) ([]reconcile.Class, error) {
	if s == "" {
		return nil, nil
	}
	var classes []reconcile.Class
	for _, part := range strings.Split(s, ",") {
		c := reconcile.Class(strings.TrimSpace(part))
		switch c {
		case reconcile.ClassExposed, reconcile.ClassFullyAccounted, reconcile.ClassUnmatched, reconcile.ClassNegative:
			classes = append(classes, c)
		default:
			return nil, errors.NewValidationError("class", part, "unknown class "+strconv.Quote(part))
		}
	}
	return classes, nil
}
