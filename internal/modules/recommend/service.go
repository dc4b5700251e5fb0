// README: Orchestrates one recommendation turn: classify, correct, retrieve, generate, split.
package recommend

import (
	"context"
	"errors"
	"io"
	"log"

	"planpick/internal/ai"
	"planpick/internal/modules/catalog"
	"planpick/internal/modules/eligibility"
	"planpick/internal/modules/profile"
)

// ErrInvalidRequest is the only terminal pipeline error: the request is
// missing its required fields and no stream is started.
var ErrInvalidRequest = errors.New("recommend: query and userProfile are required")

// CandidateRetriever yields plans for a query, filtered to an eligibility set.
type CandidateRetriever interface {
	TopK(ctx context.Context, query string, eligibility []string) ([]catalog.Plan, error)
}

// ProfileCorrector reconciles the caller profile with the current query.
type ProfileCorrector interface {
	Correct(ctx context.Context, in profile.CorrectionInput) (profile.Correction, error)
}

// Request is one /search turn.
type Request struct {
	Query          string
	Profile        *profile.UserProfile
	AmbiguousCount int
	History        []string
}

// Service runs the full recommendation pipeline and streams the framed
// answer to a writer. Every stage failure past validation degrades instead
// of erroring: a turn that reaches the stream always produces a header line
// and a message.
type Service struct {
	corrector ProfileCorrector
	retriever CandidateRetriever
	chat      ai.ChatModel
	prompts   *PromptBuilder
	splitter  *Splitter
	rules     Ruleset
}

func NewService(corrector ProfileCorrector, retriever CandidateRetriever, chat ai.ChatModel, rules Ruleset) *Service {
	return &Service{
		corrector: corrector,
		retriever: retriever,
		chat:      chat,
		prompts:   NewPromptBuilder(rules),
		splitter:  NewSplitter(rules),
		rules:     rules,
	}
}

// Validate reports whether the request can enter the pipeline at all.
func (s *Service) Validate(req Request) error {
	if req.Query == "" || req.Profile == nil {
		return ErrInvalidRequest
	}
	return nil
}

// Recommend runs one turn and writes the framed response to out.
func (s *Service) Recommend(ctx context.Context, req Request, out io.Writer) error {
	if err := s.Validate(req); err != nil {
		return err
	}

	seed := eligibility.Classify(req.Profile.Birthdate)

	correction, err := s.corrector.Correct(ctx, profile.CorrectionInput{
		Query:          req.Query,
		History:        req.History,
		Profile:        *req.Profile,
		Eligibility:    seed,
		AmbiguousCount: req.AmbiguousCount,
	})
	if err != nil {
		// The corrector treats its own failures as passthrough; an error
		// here is unexpected but still recoverable.
		log.Printf("recommend: correction: %v", err)
		correction = profile.Correction{Profile: *req.Profile, Eligibility: seed}
	}
	if correction.Terminal != nil {
		return s.splitter.EmitTerminal(ctx, correction.Terminal.Message, out)
	}

	candidates, err := s.retriever.TopK(ctx, req.Query, correction.Eligibility)
	if err != nil {
		log.Printf("recommend: retrieval: %v", err)
		candidates = nil
	}

	split := SplitRequest{
		AllowedLinks:   candidateLinks(candidates),
		AmbiguousCount: req.AmbiguousCount,
		Eligibility:    correction.Eligibility,
	}
	if correction.Applied {
		p := correction.Profile
		split.Profile = &p
	}

	systemPrompt := s.prompts.Build(PromptInput{
		Query:          req.Query,
		Profile:        correction.Profile,
		Eligibility:    correction.Eligibility,
		History:        req.History,
		AmbiguousCount: req.AmbiguousCount,
		Candidates:     candidates,
	})

	stream, err := s.chat.CompleteStream(ctx, systemPrompt, req.Query)
	if err != nil {
		log.Printf("recommend: start generation: %v", err)
		stream = emptyStream{}
	}
	split.Stream = stream

	return s.splitter.Split(ctx, split, out)
}

func candidateLinks(plans []catalog.Plan) map[string]bool {
	links := make(map[string]bool, len(plans))
	for _, p := range plans {
		links[p.PlanURL] = true
	}
	return links
}

// emptyStream stands in for a generation that never started, so the
// splitter's exhaustion fallback answers the turn.
type emptyStream struct{}

func (emptyStream) Recv() (string, error) { return "", io.EOF }
func (emptyStream) Close() error          { return nil }
