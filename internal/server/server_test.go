package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/internal/server/middleware"
	"github.com/agentstation/luga/pkg/constants"
)

type upload struct {
	field     string
	name      string
	mediaType string
	data      []byte
}

func csvUpload(field, data string) upload {
	return upload{field: field, name: field + ".csv", mediaType: constants.MediaTypeCSV, data: []byte(data)}
}

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	srv, err := New(&application.Mock{}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(t.Context()) })
	return srv.Handler()
}

func postReconcile(t *testing.T, h http.Handler, uploads ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, u := range uploads {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+u.field+`"; filename="`+u.name+`"`)
		if u.mediaType != "" {
			header.Set("Content-Type", u.mediaType)
		}
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type resultData struct {
	ID    string `json:"id"`
	Total struct {
		File     string `json:"file"`
		Products int    `json:"products"`
		Quantity string `json:"quantity"`
	} `json:"total"`
	Summary struct {
		TotalProducts   int    `json:"total_products"`
		FullyAccounted  int    `json:"fully_accounted"`
		ExposedQuantity string `json:"exposed_quantity"`
		Unmatched       int    `json:"unmatched"`
	} `json:"summary"`
	Chart []struct {
		Label string `json:"label"`
		Value string `json:"value"`
	} `json:"chart"`
	Rows []struct {
		ID      string  `json:"id"`
		Exposed *string `json:"exposed_quantity"`
		Class   string  `json:"class"`
	} `json:"rows"`
	ExportURL string `json:"export_url"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestReconcileEndToEnd(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	w := postReconcile(t, h,
		csvUpload("total", "A;10\nB;5\nC;0\n"),
		csvUpload("robot", "A;4\nB;5\n"),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	require.Nil(t, env.Error)
	var data resultData
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.NotEmpty(t, data.ID)
	assert.Equal(t, "total.csv", data.Total.File)
	assert.Equal(t, 3, data.Total.Products)
	assert.Equal(t, "15", data.Total.Quantity)
	assert.Equal(t, 3, data.Summary.TotalProducts)
	assert.Equal(t, 1, data.Summary.FullyAccounted)
	assert.Equal(t, "6", data.Summary.ExposedQuantity)
	assert.Equal(t, 1, data.Summary.Unmatched)
	require.Len(t, data.Chart, 3)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "exposed", data.Rows[0].Class)
	assert.Nil(t, data.Rows[2].Exposed)
	assert.Equal(t, "/api/v1/results/"+data.ID+"/export", data.ExportURL)

	// Stored result
	req := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+data.ID+"?class=exposed", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored resultData
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stored))
	assert.Equal(t, data.ID, stored.ID)
	require.Len(t, stored.Rows, 1)
	assert.Equal(t, "A", stored.Rows[0].ID)

	// Export download
	req = httptest.NewRequest(http.MethodGet, data.ExportURL, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ID;Giacenze\nA;6\nB;0\nC;non_trovato\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename=result_differences.csv`, rec.Header().Get("Content-Disposition"))
}

func TestReconcileEachSubmissionIsNew(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	ids := map[string]bool{}
	for i := 0; i < 2; i++ {
		w := postReconcile(t, h, csvUpload("total", "A;1\n"), csvUpload("robot", "A;1\n"))
		require.Equal(t, http.StatusCreated, w.Code)
		var data resultData
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		ids[data.ID] = true
	}
	assert.Len(t, ids, 2)
}

func TestReconcileWorkbookUpload(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Codice", "Quantita"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"A", 10}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"B", 2.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	h := newTestServer(t, DefaultConfig())
	w := postReconcile(t, h,
		upload{field: "total", name: "total.xlsx", mediaType: constants.MediaTypeXLSX, data: buf.Bytes()},
		csvUpload("robot", "A;4\n"),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data resultData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "12.5", data.Total.Quantity)
	assert.Equal(t, "6", data.Summary.ExposedQuantity)
}

func TestReconcileUploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		uploads    []upload
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "missing robot file",
			uploads:    []upload{csvUpload("total", "A;1\n")},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
			wantField:  "robot",
		},
		{
			name: "unsupported media type",
			uploads: []upload{
				csvUpload("total", "A;1\n"),
				{field: "robot", name: "robot.pdf", mediaType: "application/pdf", data: []byte("%PDF")},
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "UNSUPPORTED_MEDIA_TYPE",
			wantField:  "robot",
		},
		{
			name: "unreadable bytes",
			uploads: []upload{
				{field: "total", name: "total.csv", mediaType: constants.MediaTypeCSV, data: []byte{0x00, 0x01, 0x02}},
				csvUpload("robot", "A;1\n"),
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNREADABLE_FILE",
			wantField:  "total",
		},
		{
			name:       "non-numeric quantity",
			uploads:    []upload{csvUpload("total", "A;abc\n"), csvUpload("robot", "A;1\n")},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "TYPE_MISMATCH",
			wantField:  "total",
		},
		{
			name:       "single column",
			uploads:    []upload{csvUpload("total", "A;1\n"), csvUpload("robot", "A\nB\n")},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
			wantField:  "robot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, DefaultConfig())
			w := postReconcile(t, h, tt.uploads...)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantField, env.Error.Field)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestReconcileOctetStreamUsesFileName(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	w := postReconcile(t, h,
		upload{field: "total", name: "total.csv", mediaType: "application/octet-stream", data: []byte("A;2\n")},
		csvUpload("robot", "A;1\n"),
	)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestReconcilePayloadTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 1024
	h := newTestServer(t, cfg)

	w := postReconcile(t, h,
		csvUpload("total", strings.Repeat("A;1\n", 2048)),
		csvUpload("robot", "A;1\n"),
	)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
}

func TestReconcileMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reconcile", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnknownResult(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	for _, path := range []string{"/api/v1/results/missing", "/api/v1/results/missing/export"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestUnknownClassFilter(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	w := postReconcile(t, h, csvUpload("total", "A;1\n"), csvUpload("robot", "A;1\n"))
	var data resultData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+data.ID+"?class=bogus", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexPage(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Calcola")
	assert.Contains(t, string(body), `name="total"`)
	assert.Contains(t, string(body), `name="robot"`)

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	for _, path := range []string{"/health", "/api/v1/health", "/api/v1/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestCORSOptIn(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")

	w := httptest.NewRecorder()
	newTestServer(t, DefaultConfig()).ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	cfg := DefaultConfig()
	cfg.CORSEnabled = true
	w = httptest.NewRecorder()
	newTestServer(t, cfg).ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitedUploads(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 1
	h := newTestServer(t, cfg)

	first := postReconcile(t, h, csvUpload("total", "A;1\n"), csvUpload("robot", "A;1\n"))
	assert.Equal(t, http.StatusCreated, first.Code)
	second := postReconcile(t, h, csvUpload("total", "A;1\n"), csvUpload("robot", "A;1\n"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
