package ai

import "context"

// ChatModel defines the contract for the generative model collaborators.
// This interface allows swapping providers (OpenAI, Gemini, fakes in tests)
// without touching the recommendation pipeline.
type ChatModel interface {
	// Complete issues a single non-streaming generation and returns the
	// reply text. Used by the profile-correction step.
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)

	// CompleteStream issues a streaming generation. The returned stream
	// yields text fragments in arrival order and io.EOF on clean end.
	// Closing the stream releases the underlying connection.
	CompleteStream(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error)
}

// TokenStream is a sequence of text fragments from a streaming generation.
type TokenStream interface {
	// Recv returns the next non-empty fragment, or io.EOF when the
	// stream has ended normally.
	Recv() (string, error)
	Close() error
}

// EmbeddingClient turns text into a fixed-dimension dense vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
