package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/luga/internal/server/cache"
	"github.com/agentstation/luga/internal/server/response"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/logging"
	"github.com/agentstation/luga/pkg/reconcile"
	"github.com/agentstation/luga/pkg/sheet"
	"github.com/agentstation/luga/pkg/stock"
)

// multipartMemory is how much of a multipart form is kept in memory
// before parts spill to temporary files.
const multipartMemory = 8 << 20

// UploadView describes one normalized upload.
type UploadView struct {
	File     string `json:"file"`
	Products int    `json:"products"`
	Quantity string `json:"quantity"`
}

// ResultView is the API representation of a stored reconciliation.
type ResultView struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Total     UploadView        `json:"total"`
	Robot     UploadView        `json:"robot"`
	Summary   reconcile.Summary `json:"summary"`
	Chart     []reconcile.Slice `json:"chart"`
	Rows      []reconcile.Row   `json:"rows"`
	ExportURL string            `json:"export_url"`
}

// HandleReconcile handles POST /api/v1/reconcile.
//
// The request is a multipart form with one file in each of the "total" and
// "robot" fields. Both uploads are read and normalized before anything is
// computed; the first failing upload is reported with its field name.
func (h *Handlers) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if limit, ok := h.tooLarge(err); ok {
			response.PayloadTooLarge(w, limit)
			return
		}
		response.BadRequest(w, "Invalid upload form", err.Error())
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove multipart temp files")
		}
	}()

	total, totalName, err := h.readUpload(ctx, r, constants.TotalTable)
	if err != nil {
		h.uploadError(ctx, w, constants.TotalTable, err)
		return
	}
	robot, robotName, err := h.readUpload(ctx, r, constants.RobotTable)
	if err != nil {
		h.uploadError(ctx, w, constants.RobotTable, err)
		return
	}

	result, err := reconcile.Reconcile(total, robot)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	summary := reconcile.Summarize(result)

	entry := h.results.Put(cache.Entry{
		TotalName: totalName,
		RobotName: robotName,
		Total:     total.Totals(),
		Robot:     robot.Totals(),
		Summary:   summary,
		Result:    result,
	})

	logger.Info().
		Str("result_id", entry.ID).
		Int("products", summary.TotalProducts).
		Int("fully_accounted", summary.FullyAccounted).
		Str("exposed_quantity", summary.ExposedQuantity.String()).
		Int("unmatched", summary.Unmatched).
		Msg("Reconciliation computed")

	response.Created(w, h.view(entry, nil))
}

// tooLarge reports whether err comes from the request body limit.
// The multipart reader does not always wrap the limit error, so its
// message is matched as well.
func (h *Handlers) tooLarge(err error) (int64, bool) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return maxErr.Limit, true
	}
	if strings.Contains(err.Error(), "request body too large") {
		return h.maxUploadBytes, true
	}
	return 0, false
}

// readUpload reads and normalizes the file in the given form field.
func (h *Handlers) readUpload(ctx context.Context, r *http.Request, field string) (*stock.Table, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errors.NewValidationError(field, nil, "select a file with the "+field+" stock")
		}
		return nil, "", errors.WrapValidation(field, err)
	}
	defer func() { _ = file.Close() }()

	mediaType := declaredMediaType(header)
	logging.FromContext(logging.WithUpload(logging.WithTable(ctx, field), header.Filename)).Debug().
		Str("media_type", mediaType).
		Int64("size", header.Size).
		Msg("Reading upload")

	raw, err := sheet.ReadFrom(header.Filename, mediaType, file)
	if err != nil {
		return nil, header.Filename, err
	}
	table, err := stock.Normalize(field, raw)
	if err != nil {
		return nil, header.Filename, err
	}
	return table, header.Filename, nil
}

// declaredMediaType returns the part's Content-Type. Clients that send no
// type, or only application/octet-stream, get the type implied by the
// file name.
func declaredMediaType(header *multipart.FileHeader) string {
	mediaType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mediaType == "" || strings.HasPrefix(mediaType, "application/octet-stream") {
		if byName := sheet.MediaTypeFromName(header.Filename); byName != "" {
			return byName
		}
	}
	return mediaType
}

func (h *Handlers) uploadError(ctx context.Context, w http.ResponseWriter, field string, err error) {
	logger := logging.FromContext(ctx)
	if errors.UserActionable(err) {
		logger.Debug().Err(err).Str("field", field).Msg("Upload rejected")
	} else {
		logger.Error().Err(err).Str("field", field).Msg("Upload failed")
	}
	response.FieldError(w, field, err)
}

// view builds the API representation of e. When classes is non-empty only
// rows of those classes are listed.
func (h *Handlers) view(e *cache.Entry, classes []reconcile.Class) ResultView {
	rows := e.Result.Rows()
	if len(classes) > 0 {
		rows = e.Result.Filter(classes...)
	}
	if rows == nil {
		rows = []reconcile.Row{}
	}
	return ResultView{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Total:     UploadView{File: e.TotalName, Products: e.Total.Products, Quantity: e.Total.Quantity.String()},
		Robot:     UploadView{File: e.RobotName, Products: e.Robot.Products, Quantity: e.Robot.Quantity.String()},
		Summary:   e.Summary,
		Chart:     e.Summary.Chart(),
		Rows:      rows,
		ExportURL: h.prefix + "/results/" + e.ID + "/export",
	}
}
