package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements ChatModel and EmbeddingClient using the OpenAI API.
type OpenAIProvider struct {
	client      *openai.Client
	chatModel   string
	embedModel  string
	temperature float32
}

// OpenAIOptions configures an OpenAIProvider. Zero values fall back to the
// defaults used by the recommendation pipeline.
type OpenAIOptions struct {
	ChatModel   string
	EmbedModel  string
	Temperature float32
}

// NewOpenAIProvider initializes a new OpenAI client.
// apiKey should be provided from environment variables.
func NewOpenAIProvider(apiKey string, opts OpenAIOptions) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	if opts.ChatModel == "" {
		opts.ChatModel = "gpt-4.1-mini"
	}
	if opts.EmbedModel == "" {
		opts.EmbedModel = string(openai.SmallEmbedding3)
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		chatModel:   opts.ChatModel,
		embedModel:  opts.EmbedModel,
		temperature: opts.Temperature,
	}, nil
}

// Complete implements ChatModel.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.chatModel,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: API returned empty choices array")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream implements ChatModel.
func (p *OpenAIProvider) CompleteStream(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.chatModel,
		Temperature: p.temperature,
		Stream:      true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: open chat stream: %w", err)
	}
	return &openAIStream{stream: stream}, nil
}

// openAIStream adapts *openai.ChatCompletionStream to TokenStream.
type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (string, error) {
	// Chunks without content (role-only deltas, finish markers) are skipped
	// so callers only ever see text fragments.
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err // io.EOF passes through untouched
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

// Embed implements EmbeddingClient.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: API returned empty embedding data")
	}
	return resp.Data[0].Embedding, nil
}
