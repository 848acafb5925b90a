package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
)

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gemini-2.0-flash"

// APIKeyEnvVar is the single environment variable consulted when no explicit
// API key is supplied.
const APIKeyEnvVar = "GEMINI_API_KEY"

// Options configures a Provider. Config is fixed for the lifetime of the
// instance.
type Options struct {
	APIKey string
	Model  string
	Config llm.GenerateConfig
	Logger *zap.Logger
}

// Provider implements llm.Provider against the Gemini API. Safe for
// concurrent use to the extent the underlying genai client is.
type Provider struct {
	client *genai.Client
	model  string
	cfg    llm.GenerateConfig
	logger *zap.Logger
}

// New constructs a Provider. The API key is taken from opts.APIKey, falling
// back to the GEMINI_API_KEY environment variable; absence of both fails with
// llm.ErrMissingCredential before any network activity. A transport
// construction failure fails with llm.ErrBackendInit.
func New(ctx context.Context, opts Options) (*Provider, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnvVar)
	}
	if apiKey == "" {
		logger.Error("client init failed",
			zap.String("event", "client_init"),
			zap.String("reason", "api key missing"))
		return nil, fmt.Errorf("%w (%s)", llm.ErrMissingCredential, APIKeyEnvVar)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Error("client init failed",
			zap.String("event", "client_init"),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", llm.ErrBackendInit, err)
	}

	logger.Info("client initialized",
		zap.String("event", "client_init"),
		zap.String("model_name", model))

	return &Provider{
		client: client,
		model:  model,
		cfg:    opts.Config,
		logger: logger,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "gemini" }

// Model returns the configured model identifier.
func (p *Provider) Model() string { return p.model }

// Generate submits the ordered segments in one call and drains the response
// stream into a single string. Exactly one candidate is requested; chunks are
// concatenated in arrival order, so callers never observe partial text.
func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	parts := make([]*genai.Part, 0, len(req.Segments))
	for _, seg := range req.Segments {
		parts = append(parts, genai.NewPartFromText(seg))
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	cfg := &genai.GenerateContentConfig{
		CandidateCount:  int32(p.cfg.CandidateCount),
		Temperature:     genai.Ptr(p.cfg.Temperature),
		MaxOutputTokens: p.cfg.MaxOutputTokens,
	}

	p.logger.Info("generation request sent",
		zap.String("event", "generation_request_sent"),
		zap.String("model", model),
		zap.Int("segments", len(req.Segments)))

	var out strings.Builder
	var finishReason string
	for chunk, err := range p.client.Models.GenerateContentStream(ctx, model, contents, cfg) {
		if err != nil {
			p.logger.Error("generation failed",
				zap.String("event", "generation_failed"),
				zap.String("model", model),
				zap.Error(err))
			return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: err}
		}
		out.WriteString(chunk.Text())
		if len(chunk.Candidates) > 0 && chunk.Candidates[0].FinishReason != "" {
			finishReason = string(chunk.Candidates[0].FinishReason)
		}
	}

	p.logger.Info("generation complete",
		zap.String("event", "generation_complete"),
		zap.String("model", model),
		zap.Int("output_length", out.Len()))

	return llm.GenerateResponse{
		Text:         out.String(),
		FinishReason: finishReason,
		ProviderName: p.Name(),
		Model:        model,
	}, nil
}
