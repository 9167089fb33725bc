package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request within the interval should be rejected")
	}
	// Another client has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("separate IP should not share the exhausted bucket")
	}
}

func testContext(t *testing.T, method, path string, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestBrotliSkipsIncompatibleRoutes(t *testing.T) {
	prefixes := DefaultBrotliConfig.SkipPrefixes

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    bool
	}{
		{"plain api route", "/api/v1/student/exams", nil, false},
		{"websocket upgrade", "/ws/v1/admin/exams/x/monitor", map[string]string{"Upgrade": "websocket"}, true},
		{"sse accept", "/api/v1/admin/system/metrics", map[string]string{"Accept": "text/event-stream"}, true},
		{"metrics by prefix", "/api/v1/admin/system/metrics", nil, true},
		{"evidence frames", "/api/v1/admin/evidence/abc/frame.jpg", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(t, "GET", tt.path, tt.headers)
			if got := skipCompression(c, prefixes); got != tt.want {
				t.Errorf("skipCompression(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
