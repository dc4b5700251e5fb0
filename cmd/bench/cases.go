// README: Smoke-test cases for the recommendation API; HTTP, Redis, stream framing, and load checks.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func validSearchBody() map[string]any {
	return map[string]any{
		"query": "데이터 많이 주는 요금제 추천해줘",
		"userProfile": map[string]any{
			"birthdate":       "1995-03-02",
			"telecomProvider": "SKT",
			"planName":        "T플랜 에센스",
			"familyBundle":    "없음",
			"persona":         "데이터 헤비",
		},
		"ambiguousCount": 0,
		"history":        []string{},
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Redis connect",
			Focus: "embedding cache reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "API: server reachable",
			Focus: "health endpoint answers",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(base + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},

		// Validation path: no stream, plain JSON body.
		{
			Name:  "Search: missing fields -> validation body",
			Focus: "terminal validation",
			Run: func(ctx context.Context, r *Runner) Result {
				body, status, err := r.postJSON(ctx, base+"/search", map[string]any{"query": ""})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
				}
				var parsed struct {
					Status  bool   `json:"status"`
					Message string `json:"message"`
				}
				if err := json.Unmarshal(body, &parsed); err != nil {
					return Result{Status: "FAIL", Note: "body is not JSON"}
				}
				if parsed.Status || !strings.Contains(parsed.Message, "required") {
					return Result{Status: "FAIL", Note: string(body)}
				}
				return Result{Status: "PASS"}
			},
		},
		httpCase("Search: broken JSON -> 400", base+"/search", "{broken", []int{400}),
		httpCase("Vectorize: broken JSON -> 400", base+"/vectorize", `{"not":"array"}`, []int{400}),
		{
			Name:  "Vectorize: empty batch",
			Focus: "ingestion",
			Run: func(ctx context.Context, r *Runner) Result {
				body, status, err := r.postJSON(ctx, base+"/vectorize", []any{})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
				}
				var parsed struct {
					Status   string `json:"status"`
					Inserted int    `json:"inserted"`
				}
				if err := json.Unmarshal(body, &parsed); err != nil || parsed.Status != "ok" || parsed.Inserted != 0 {
					return Result{Status: "FAIL", Note: string(body)}
				}
				return Result{Status: "PASS"}
			},
		},

		// Full streaming turn. Needs a live model key on the server side;
		// the frame must hold either way because exhaustion falls back.
		{
			Name:  "Search: stream frame (header line + message)",
			Focus: "stream framing",
			Run: func(ctx context.Context, r *Runner) Result {
				b, _ := json.Marshal(validSearchBody())
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, base+"/search", strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				start := time.Now()
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				reader := bufio.NewReader(resp.Body)
				headerLine, err := reader.ReadString('\n')
				if err != nil {
					return Result{Status: "FAIL", Note: "no header line: " + err.Error()}
				}
				var header struct {
					Status bool            `json:"status"`
					Item   json.RawMessage `json:"item"`
				}
				if err := json.Unmarshal([]byte(headerLine), &header); err != nil {
					return Result{Status: "FAIL", Note: "header is not JSON: " + headerLine}
				}
				if header.Item == nil {
					return Result{Status: "FAIL", Note: "header has no item field"}
				}
				rest, _ := io.ReadAll(reader)
				if len(rest) == 0 {
					return Result{Status: "FAIL", Note: "no message after header"}
				}
				return Result{Status: "PASS", Latency: time.Since(start), Note: fmt.Sprintf("recommended=%v", header.Status)}
			},
		},

		{
			Name:  "Concurrency: parallel validation turns",
			Focus: "no interleaved stream state",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentValidation(ctx, r, base+"/search")
			},
		},
		{
			Name:  "Perf: health throughput",
			Focus: "baseline request rate",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/health")
			},
		},
	}
}

func (r *Runner) postJSON(ctx context.Context, url string, payload any) ([]byte, int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func httpCase(name, url, rawBody string, okStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(rawBody))
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func concurrentValidation(ctx context.Context, r *Runner, url string) Result {
	payload, _ := json.Marshal(map[string]any{"query": ""})
	wg := sync.WaitGroup{}
	var mu sync.Mutex
	succ := 0

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
			req.Header.Set("Content-Type", "application/json")
			resp, err := r.httpc.Do(req)
			if err != nil {
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			mu.Lock()
			if resp.StatusCode == http.StatusOK {
				succ++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if succ != r.cfg.Concurrency {
		return Result{Status: "FAIL", Note: fmt.Sprintf("success=%d/%d", succ, r.cfg.Concurrency)}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("success=%d", succ)}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
