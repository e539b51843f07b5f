package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggerMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	tests := []struct {
		name      string
		requestID string
	}{
		{"generated id", ""},
		{"short client id", "abc"},
		{"long client id", "0123456789abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.requestID != "" {
				req.Header.Set("X-Request-ID", tt.requestID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			got := w.Header().Get("X-Request-ID")
			if got == "" {
				t.Error("X-Request-ID header not set")
			}
			if tt.requestID != "" && got != tt.requestID {
				t.Errorf("X-Request-ID = %q, want %q", got, tt.requestID)
			}
		})
	}
}

func TestShortRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"123456789", "12345678"},
	}
	for _, tt := range tests {
		if got := shortRequestID(tt.id); got != tt.want {
			t.Errorf("shortRequestID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
