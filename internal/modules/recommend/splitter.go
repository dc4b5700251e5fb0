// README: Splits a generative token stream into a header line plus a paced message body.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"planpick/internal/ai"
	"planpick/internal/modules/profile"
)

// Splitter incrementally parses the model's streamed JSON reply and reframes
// it for the client: one machine-readable header line, then the human
// message character by character. The model reply is never forwarded raw.
type Splitter struct {
	rules Ruleset
}

func NewSplitter(rules Ruleset) *Splitter {
	return &Splitter{rules: rules}
}

// SplitRequest is one streaming turn.
type SplitRequest struct {
	Stream ai.TokenStream

	// AllowedLinks holds the candidate planUrl values; items whose link is
	// not in the set are dropped before the header is written. A nil map
	// disables filtering.
	AllowedLinks map[string]bool

	// AmbiguousCount selects the refusal tier if the stream exhausts
	// without ever parsing.
	AmbiguousCount int

	// Advisory corrected state, echoed on the header when present.
	Profile     *profile.UserProfile
	Eligibility []string
}

// Split consumes the stream and writes the framed response to out.
//
// Fragments accumulate until the buffer first parses as a complete Result;
// at that point the header is committed, the message is paced out, and the
// remainder of the stream is discarded. A stream that errors or ends without
// parsing is treated the same way: exhausted, answered with the fixed
// fallback. Exactly one header line is written either way.
func (s *Splitter) Split(ctx context.Context, req SplitRequest, out io.Writer) error {
	defer req.Stream.Close()

	var buf strings.Builder
	for {
		frag, err := req.Stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("recommend: generation stream: %v", err)
			}
			break
		}
		if frag == "" {
			continue
		}
		buf.WriteString(frag)

		var res Result
		if jerr := json.Unmarshal([]byte(buf.String()), &res); jerr != nil {
			continue
		}
		return s.emitResult(ctx, req, res, out)
	}

	return s.emitFallback(ctx, req, out)
}

// EmitTerminal sends a short-circuit refusal through the same frame as a
// regular answer, so clients parse both paths identically.
func (s *Splitter) EmitTerminal(ctx context.Context, message string, out io.Writer) error {
	if err := s.writeHeader(Header{Status: false, Item: []Item{}}, out); err != nil {
		return err
	}
	return s.paceMessage(ctx, message, out)
}

func (s *Splitter) emitResult(ctx context.Context, req SplitRequest, res Result, out io.Writer) error {
	items := s.filterItems(res.Item, req.AllowedLinks)
	header := Header{
		Status:          len(items) > 0,
		Item:            items,
		UserProfile:     req.Profile,
		EligibilityList: req.Eligibility,
	}
	if err := s.writeHeader(header, out); err != nil {
		return err
	}
	return s.paceMessage(ctx, res.Message, out)
}

func (s *Splitter) emitFallback(ctx context.Context, req SplitRequest, out io.Writer) error {
	header := Header{
		Status:          false,
		Item:            []Item{},
		UserProfile:     req.Profile,
		EligibilityList: req.Eligibility,
	}
	if err := s.writeHeader(header, out); err != nil {
		return err
	}
	return s.paceMessage(ctx, s.rules.FallbackFor(req.AmbiguousCount)+"\n", out)
}

// filterItems drops items whose link is not a candidate planUrl and caps
// the list length. Item always marshals as a JSON array, never null.
func (s *Splitter) filterItems(items []Item, allowed map[string]bool) []Item {
	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if allowed != nil && !allowed[it.Link] {
			log.Printf("recommend: dropping item with unknown link %q", it.Link)
			continue
		}
		kept = append(kept, it)
		if s.rules.MaxItems > 0 && len(kept) == s.rules.MaxItems {
			break
		}
	}
	return kept
}

func (s *Splitter) writeHeader(h Header, out io.Writer) error {
	line, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("recommend: marshal header: %w", err)
	}
	if _, err := out.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("recommend: write header: %w", err)
	}
	flush(out)
	return nil
}

// paceMessage writes the message rune by rune with a fixed delay so the
// client renders a typing effect. Cancellation stops mid-message.
func (s *Splitter) paceMessage(ctx context.Context, message string, out io.Writer) error {
	for _, r := range message {
		if _, err := io.WriteString(out, string(r)); err != nil {
			return fmt.Errorf("recommend: write message: %w", err)
		}
		flush(out)
		if s.rules.CharDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.rules.CharDelay):
		}
	}
	return nil
}

func flush(out io.Writer) {
	if f, ok := out.(interface{ Flush() }); ok {
		f.Flush()
	}
}
