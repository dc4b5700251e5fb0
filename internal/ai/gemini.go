package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiProvider implements ChatModel using Google's Gemini models.
// It exists as an alternative backend to the default OpenAI provider and is
// selected via configuration.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	// Flash keeps latency low for the conversational path.
	model := client.GenerativeModel("gemini-2.0-flash")

	// The pipeline contracts demand JSON-only replies.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.7)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Complete implements ChatModel.
func (p *GeminiProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(combinePrompt(systemPrompt, userMessage)))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: API returned empty candidates")
	}
	return text, nil
}

// CompleteStream implements ChatModel.
func (p *GeminiProvider) CompleteStream(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error) {
	iter := p.model.GenerateContentStream(ctx, genai.Text(combinePrompt(systemPrompt, userMessage)))
	return &geminiStream{iter: iter}, nil
}

// geminiStream adapts the genai response iterator to TokenStream.
type geminiStream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *geminiStream) Recv() (string, error) {
	for {
		resp, err := s.iter.Next()
		if err == iterator.Done {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("gemini: stream recv: %w", err)
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Close() error {
	// The iterator has no explicit close; cancelling the request context
	// releases the connection.
	return nil
}

// combinePrompt appends the user message to the system instruction. The
// Gemini SDK supports SystemInstruction, but a combined prompt keeps the
// per-request context binding identical to the OpenAI path.
func combinePrompt(systemPrompt, userMessage string) string {
	return fmt.Sprintf("%s\n\nUser Message: %s", systemPrompt, userMessage)
}

// responseText extracts the concatenated text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
