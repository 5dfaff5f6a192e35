package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantMethods string
		wantVary    bool
	}{
		{
			name:        "configured origin is echoed",
			allowed:     []string{"https://league.example.com"},
			method:      http.MethodGet,
			origin:      "https://league.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://league.example.com",
			wantMethods: "GET,OPTIONS",
			wantVary:    true,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{" * "},
			method:      http.MethodOptions,
			origin:      "https://league.example.com",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantMethods: "GET,OPTIONS",
		},
		{
			name:       "unknown origin gets no headers",
			allowed:    []string{"https://allowed.example.com"},
			method:     http.MethodGet,
			origin:     "https://not-allowed.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin passes through",
			allowed:    []string{"*"},
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/divisions/majors/standings", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, tt.wantVary, rec.Header().Get("Vary") == "Origin")
			if tt.wantOrigin != "" {
				assert.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	quiet := []string{"/healthz", "/health", "/livez", "/readyz", "/metrics", " /HEALTHZ "}
	for _, path := range quiet {
		assert.False(t, shouldTraceRequest(path), path)
	}

	traced := []string{"/v1/divisions", "/v1/divisions/majors/standings", "/v1/divisions/majors/power-rankings/w3", "/docs", "/"}
	for _, path := range traced {
		assert.True(t, shouldTraceRequest(path), path)
	}
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}

	_, _ = rec.Write([]byte("ok"))
	rec.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rec.status)
	assert.Equal(t, 2, rec.bytes)
}
