package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestCORS tests origin handling and preflight requests.
func TestCORS(t *testing.T) {
	tests := []struct {
		name         string
		config       CORSConfig
		method       string
		origin       string
		expectOrigin string
		expectStatus int
	}{
		{
			name:         "allow all",
			config:       DefaultCORSConfig(),
			method:       "GET",
			origin:       "http://example.com",
			expectOrigin: "*",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "listed origin echoed",
			config:       DefaultCORSConfig("http://farmacia.local"),
			method:       "POST",
			origin:       "http://farmacia.local",
			expectOrigin: "http://farmacia.local",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "unlisted origin omitted",
			config:       DefaultCORSConfig("http://farmacia.local"),
			method:       "GET",
			origin:       "http://evil.example",
			expectOrigin: "",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "preflight short-circuits",
			config:       DefaultCORSConfig("*"),
			method:       "OPTIONS",
			origin:       "http://example.com",
			expectOrigin: "http://example.com",
			expectStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(tt.method, "/api/v1/reconcile", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.expectOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectOrigin)
			}
			if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
				t.Errorf("Access-Control-Expose-Headers = %q", got)
			}
		})
	}
}
