package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed string
	}{
		{"configured client", []string{"http://localhost:3000/"}, "http://localhost:3000", "http://localhost:3000"},
		{"other origin", []string{"http://localhost:3000"}, "http://evil.example", ""},
		{"wildcard", []string{"*"}, "http://anything.example", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(tt.origins...))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/x", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.allowed {
				t.Fatalf("allow-origin = %q, want %q", got, tt.allowed)
			}
		})
	}
}

func TestRequestLoggerSetsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	var seen string
	r.GET("/x", func(c *gin.Context) { seen = c.GetString("requestId") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id = %q / %q", seen, w.Header().Get(RequestIDHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("generated id = %q", w.Header().Get(RequestIDHeader))
	}
}
