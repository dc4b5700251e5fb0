// README: Router wiring tests (health, CORS preflight).
package http_test

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	planhttp "planpick/internal/http"
	"planpick/internal/modules/catalog"
	"planpick/internal/modules/quota"
	"planpick/internal/modules/recommend"
)

type noopRecommender struct{}

func (noopRecommender) Recommend(context.Context, recommend.Request, io.Writer) error { return nil }

type noopIngestor struct{}

func (noopIngestor) Ingest(context.Context, []catalog.Plan) (int, error) { return 0, nil }

func newRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return planhttp.NewRouter(planhttp.RouterDeps{
		Recommender: noopRecommender{},
		Ingestor:    noopIngestor{},
		CORSOrigins: origins,
	})
}

func TestHealth(t *testing.T) {
	r := newRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))

	if w.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestCORSPreflightDefaultOrigins(t *testing.T) {
	r := newRouter(nil)

	req := httptest.NewRequest(stdhttp.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

type exhaustedQuota struct{}

func (exhaustedQuota) UseTurn(context.Context, string) error { return quota.ErrQuotaExhausted }

func TestSearchBlockedWhenQuotaExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := planhttp.NewRouter(planhttp.RouterDeps{
		Recommender: noopRecommender{},
		Ingestor:    noopIngestor{},
		Quota:       exhaustedQuota{},
	})

	req := httptest.NewRequest(stdhttp.MethodPost, "/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	r := newRouter([]string{"https://chat.example.com"})

	req := httptest.NewRequest(stdhttp.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must not be allowed, got %q", got)
	}
}
