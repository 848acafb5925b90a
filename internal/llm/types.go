package llm

import "context"

// GenerateConfig holds the generation parameters fixed per provider instance.
type GenerateConfig struct {
	CandidateCount  int
	Temperature     float32
	MaxOutputTokens int32
}

// GenerateRequest is the assembled prompt handed to a provider. Segments are
// ordered and must be submitted to the backend without reordering.
type GenerateRequest struct {
	Model    string
	Segments []string
}

// GenerateResponse is the result of a generation call. Text is the full
// generated content; providers that stream drain the stream before returning.
type GenerateResponse struct {
	Text         string
	FinishReason string
	ProviderName string
	Model        string
}

// Provider defines the contract for content-generation backends.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}
