package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// scriptedStream replays fixed fragments, then a final error.
type scriptedStream struct {
	fragments []string
	finalErr  error
	pos       int
	closed    bool
}

func (s *scriptedStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		if s.finalErr != nil {
			return "", s.finalErr
		}
		return "", io.EOF
	}
	frag := s.fragments[s.pos]
	s.pos++
	return frag, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func testRules() Ruleset {
	r := DefaultRuleset()
	r.CharDelay = 0
	return r
}

const samplePayload = `{"status": true, "item": [{"name": "5G 프리미어", "link": "https://plans.example/5g-premier"}], "message": "\n\n1. 5G 프리미어\n(85,000원 / 무제한 / 무제한 / 무제한 / 넷플릭스)\n- 데이터를 많이 쓰는 분께 알맞아요.\n\n"}`

func sampleLinks() map[string]bool {
	return map[string]bool{"https://plans.example/5g-premier": true}
}

func splitLines(t *testing.T, raw string) (header string, body string) {
	t.Helper()
	idx := strings.IndexByte(raw, '\n')
	if idx < 0 {
		t.Fatalf("output has no header line: %q", raw)
	}
	return raw[:idx], raw[idx+1:]
}

func TestSplitEmitsHeaderThenMessage(t *testing.T) {
	stream := &scriptedStream{fragments: []string{samplePayload}}
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	err := sp.Split(context.Background(), SplitRequest{Stream: stream, AllowedLinks: sampleLinks()}, &out)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	headerLine, body := splitLines(t, out.String())
	var h Header
	if err := json.Unmarshal([]byte(headerLine), &h); err != nil {
		t.Fatalf("header line is not JSON: %v", err)
	}
	if !h.Status || len(h.Item) != 1 || h.Item[0].Name != "5G 프리미어" {
		t.Fatalf("unexpected header: %+v", h)
	}

	var want Result
	if err := json.Unmarshal([]byte(samplePayload), &want); err != nil {
		t.Fatalf("sample payload: %v", err)
	}
	if body != want.Message {
		t.Fatalf("body = %q, want %q", body, want.Message)
	}
	if !stream.closed {
		t.Fatal("stream was not closed")
	}
}

// The output must be identical no matter where fragment boundaries fall,
// including mid-rune and mid-escape splits.
func TestSplitFragmentBoundaryInvariance(t *testing.T) {
	sp := NewSplitter(testRules())

	var canonical string
	{
		stream := &scriptedStream{fragments: []string{samplePayload}}
		var out bytes.Buffer
		if err := sp.Split(context.Background(), SplitRequest{Stream: stream, AllowedLinks: sampleLinks()}, &out); err != nil {
			t.Fatalf("Split (whole payload): %v", err)
		}
		canonical = out.String()
	}

	for cut := 1; cut < len(samplePayload); cut++ {
		stream := &scriptedStream{fragments: []string{samplePayload[:cut], samplePayload[cut:]}}
		var out bytes.Buffer
		if err := sp.Split(context.Background(), SplitRequest{Stream: stream, AllowedLinks: sampleLinks()}, &out); err != nil {
			t.Fatalf("Split (cut at %d): %v", cut, err)
		}
		if out.String() != canonical {
			t.Fatalf("cut at %d changed output:\n got %q\nwant %q", cut, out.String(), canonical)
		}
	}
}

func TestSplitDiscardsTrailingFragments(t *testing.T) {
	stream := &scriptedStream{fragments: []string{samplePayload, "TRAILING", "GARBAGE"}}
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	if err := sp.Split(context.Background(), SplitRequest{Stream: stream, AllowedLinks: sampleLinks()}, &out); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if strings.Contains(out.String(), "TRAILING") || strings.Contains(out.String(), "GARBAGE") {
		t.Fatalf("trailing fragments leaked into output: %q", out.String())
	}
	if strings.Count(out.String(), "\"status\"") != 1 {
		t.Fatalf("expected exactly one header line, got %q", out.String())
	}
}

func TestSplitExhaustedStreamFallsBack(t *testing.T) {
	tests := []struct {
		name           string
		fragments      []string
		finalErr       error
		ambiguousCount int
		wantMessage    string
	}{
		{
			name:        "never parses",
			fragments:   []string{"자연어로만 대답합니다, JSON 아님"},
			wantMessage: "질문을 잘 알아듣지 못했어요.\n",
		},
		{
			name:        "empty stream",
			fragments:   nil,
			wantMessage: "질문을 잘 알아듣지 못했어요.\n",
		},
		{
			name:        "stream error",
			fragments:   []string{`{"status": tr`},
			finalErr:    errors.New("connection reset"),
			wantMessage: "질문을 잘 알아듣지 못했어요.\n",
		},
		{
			name:           "escalates at threshold",
			fragments:      []string{"???"},
			ambiguousCount: 3,
			wantMessage:    "질문을 잘 알아듣지 못했어요. 고객센터로 연결해드리겠습니다.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &scriptedStream{fragments: tt.fragments, finalErr: tt.finalErr}
			sp := NewSplitter(testRules())
			var out bytes.Buffer

			err := sp.Split(context.Background(), SplitRequest{Stream: stream, AmbiguousCount: tt.ambiguousCount}, &out)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}

			headerLine, body := splitLines(t, out.String())
			var h Header
			if err := json.Unmarshal([]byte(headerLine), &h); err != nil {
				t.Fatalf("header line is not JSON: %v", err)
			}
			if h.Status || len(h.Item) != 0 {
				t.Fatalf("fallback header should be empty-failure, got %+v", h)
			}
			if !strings.Contains(headerLine, `"item":[]`) {
				t.Fatalf("item must marshal as [], got %q", headerLine)
			}
			if body != tt.wantMessage {
				t.Fatalf("body = %q, want %q", body, tt.wantMessage)
			}
		})
	}
}

func TestSplitDropsUnknownLinks(t *testing.T) {
	payload := `{"status": true, "item": [{"name": "진짜", "link": "https://plans.example/real"}, {"name": "지어낸", "link": "https://evil.example/фиш"}], "message": "m"}`
	stream := &scriptedStream{fragments: []string{payload}}
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	req := SplitRequest{Stream: stream, AllowedLinks: map[string]bool{"https://plans.example/real": true}}
	if err := sp.Split(context.Background(), req, &out); err != nil {
		t.Fatalf("Split: %v", err)
	}

	headerLine, _ := splitLines(t, out.String())
	var h Header
	if err := json.Unmarshal([]byte(headerLine), &h); err != nil {
		t.Fatalf("header: %v", err)
	}
	if len(h.Item) != 1 || h.Item[0].Link != "https://plans.example/real" {
		t.Fatalf("unknown link survived filtering: %+v", h.Item)
	}
	if !h.Status {
		t.Fatal("status should stay true while one item remains")
	}
}

func TestSplitAllLinksDroppedFlipsStatus(t *testing.T) {
	payload := `{"status": true, "item": [{"name": "지어낸", "link": "https://evil.example/x"}], "message": "m"}`
	stream := &scriptedStream{fragments: []string{payload}}
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	req := SplitRequest{Stream: stream, AllowedLinks: map[string]bool{"https://plans.example/real": true}}
	if err := sp.Split(context.Background(), req, &out); err != nil {
		t.Fatalf("Split: %v", err)
	}

	headerLine, _ := splitLines(t, out.String())
	var h Header
	if err := json.Unmarshal([]byte(headerLine), &h); err != nil {
		t.Fatalf("header: %v", err)
	}
	if h.Status || len(h.Item) != 0 {
		t.Fatalf("header should be downgraded to failure, got %+v", h)
	}
}

func TestSplitHeaderCarriesAdvisoryState(t *testing.T) {
	stream := &scriptedStream{fragments: []string{samplePayload}}
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	req := SplitRequest{
		Stream:       stream,
		AllowedLinks: sampleLinks(),
		Eligibility:  []string{"ALL", "YOUTH"},
	}
	if err := sp.Split(context.Background(), req, &out); err != nil {
		t.Fatalf("Split: %v", err)
	}

	headerLine, _ := splitLines(t, out.String())
	if !strings.Contains(headerLine, `"eligibilityList":["ALL","YOUTH"]`) {
		t.Fatalf("eligibility missing from header: %q", headerLine)
	}
	if strings.Contains(headerLine, "userProfile") {
		t.Fatalf("nil profile must be omitted from header: %q", headerLine)
	}
}

func TestEmitTerminal(t *testing.T) {
	sp := NewSplitter(testRules())
	var out bytes.Buffer

	if err := sp.EmitTerminal(context.Background(), "안녕하세요!", &out); err != nil {
		t.Fatalf("EmitTerminal: %v", err)
	}

	headerLine, body := splitLines(t, out.String())
	var h Header
	if err := json.Unmarshal([]byte(headerLine), &h); err != nil {
		t.Fatalf("header: %v", err)
	}
	if h.Status || len(h.Item) != 0 {
		t.Fatalf("terminal header should be empty-failure, got %+v", h)
	}
	if body != "안녕하세요!" {
		t.Fatalf("body = %q", body)
	}
}

func TestPaceMessageStopsOnCancel(t *testing.T) {
	rules := testRules()
	rules.CharDelay = time.Millisecond
	sp := NewSplitter(rules)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	stream := &scriptedStream{fragments: []string{samplePayload}}
	err := sp.Split(ctx, SplitRequest{Stream: stream, AllowedLinks: sampleLinks()}, &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, body := splitLines(t, out.String()); len(body) >= len("\n\n1. 5G 프리미어") {
		t.Fatalf("cancellation did not stop pacing early: %d bytes of body", len(body))
	}
}
