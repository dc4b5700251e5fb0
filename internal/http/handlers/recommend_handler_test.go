// README: Tests for the /search streaming handler contract.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"planpick/internal/http/handlers"
	"planpick/internal/modules/recommend"
)

// fakeRecommender streams a fixed framed response and records the request.
type fakeRecommender struct {
	output string
	called bool
	got    recommend.Request
}

func (f *fakeRecommender) Recommend(_ context.Context, req recommend.Request, out io.Writer) error {
	f.called = true
	f.got = req
	_, err := io.WriteString(out, f.output)
	return err
}

func buildSearchRouter(svc handlers.Recommender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewRecommendHandler(svc)
	r.POST("/search", h.Search)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearch_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"no query", map[string]any{"userProfile": map[string]any{"birthdate": "1995-03-02"}}},
		{"no profile", map[string]any{"query": "요금제 추천해줘"}},
		{"empty body", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRecommender{}
			w := doJSON(buildSearchRouter(svc), http.MethodPost, "/search", tt.body)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var resp struct {
				Status  bool   `json:"status"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if resp.Status || resp.Message != "query and userProfile are required" {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
			if svc.called {
				t.Fatal("validation failure must not reach the service")
			}
		})
	}
}

func TestSearch_InvalidJSON(t *testing.T) {
	svc := &fakeRecommender{}
	r := buildSearchRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if svc.called {
		t.Fatal("invalid json must not reach the service")
	}
}

func TestSearch_StreamsFramedResponse(t *testing.T) {
	framed := `{"status":true,"item":[{"name":"5G 프리미어","link":"https://plans.example/1"}]}` + "\n\n\n추천 내용"
	svc := &fakeRecommender{output: framed}
	r := buildSearchRouter(svc)

	body := map[string]any{
		"query":          "데이터 많은 요금제",
		"userProfile":    map[string]any{"birthdate": "1995-03-02", "telecomProvider": "SKT"},
		"ambiguousCount": 2,
		"history":        []string{"이전 질문"},
	}
	w := doJSON(r, http.MethodPost, "/search", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q, want text/plain", ct)
	}
	if w.Body.String() != framed {
		t.Fatalf("body = %q, want %q", w.Body.String(), framed)
	}

	if !svc.called {
		t.Fatal("service was not invoked")
	}
	if svc.got.Query != "데이터 많은 요금제" || svc.got.AmbiguousCount != 2 {
		t.Fatalf("request not passed through: %+v", svc.got)
	}
	if svc.got.Profile == nil || svc.got.Profile.TelecomProvider != "SKT" {
		t.Fatalf("profile not passed through: %+v", svc.got.Profile)
	}
	if len(svc.got.History) != 1 || svc.got.History[0] != "이전 질문" {
		t.Fatalf("history not passed through: %v", svc.got.History)
	}
}
