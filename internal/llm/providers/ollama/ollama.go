package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
)

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "llama3.2"

// HostEnvVar is the environment variable consulted when no explicit host is
// supplied.
const HostEnvVar = "OLLAMA_HOST"

// DefaultHost is the local Ollama endpoint used when neither an explicit host
// nor OLLAMA_HOST is set.
const DefaultHost = "http://127.0.0.1:11434"

// Options configures a Provider. Config is fixed for the lifetime of the
// instance.
type Options struct {
	Host    string
	Model   string
	Config  llm.GenerateConfig
	Timeout time.Duration
	Logger  *zap.Logger
}

// Provider implements llm.Provider against a local or remote Ollama server.
// No credential is required; the host is taken from opts.Host, falling back
// to OLLAMA_HOST and then DefaultHost.
type Provider struct {
	client  *http.Client
	baseURL string
	model   string
	cfg     llm.GenerateConfig
	logger  *zap.Logger
}

// New constructs a Provider. A host that does not parse as an http(s) URL
// fails with llm.ErrBackendInit.
func New(opts Options) (*Provider, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	host := opts.Host
	if host == "" {
		host = os.Getenv(HostEnvVar)
	}
	if host == "" {
		host = DefaultHost
	}

	u, err := url.Parse(host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logger.Error("client init failed",
			zap.String("event", "client_init"),
			zap.String("host", host))
		return nil, fmt.Errorf("%w: invalid ollama host %q", llm.ErrBackendInit, host)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	logger.Info("client initialized",
		zap.String("event", "client_init"),
		zap.String("host", host),
		zap.String("model_name", model))

	return &Provider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(host, "/"),
		model:   model,
		cfg:     opts.Config,
		logger:  logger,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "ollama" }

// Model returns the configured model identifier.
func (p *Provider) Model() string { return p.model }

// Generate submits the ordered segments as one completion request. Segments
// are joined in order with blank lines; Ollama has no multi-part payload.
func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body := ollamaGenerateRequest{
		Model:  model,
		Prompt: strings.Join(req.Segments, "\n\n"),
		Stream: false,
		Options: map[string]interface{}{
			"temperature": p.cfg.Temperature,
			"num_predict": p.cfg.MaxOutputTokens,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: fmt.Errorf("marshal request: %w", err)}
	}

	p.logger.Info("generation request sent",
		zap.String("event", "generation_request_sent"),
		zap.String("model", model),
		zap.Int("segments", len(req.Segments)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("generation failed",
			zap.String("event", "generation_failed"),
			zap.String("model", model),
			zap.Error(err))
		return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: fmt.Errorf("send request: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		err := fmt.Errorf("status %d: %s", res.StatusCode, string(b))
		p.logger.Error("generation failed",
			zap.String("event", "generation_failed"),
			zap.String("model", model),
			zap.Error(err))
		return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: err}
	}

	var resp ollamaGenerateResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return llm.GenerateResponse{}, &llm.BackendError{Provider: p.Name(), Model: model, Err: fmt.Errorf("decode response: %w", err)}
	}

	p.logger.Info("generation complete",
		zap.String("event", "generation_complete"),
		zap.String("model", model),
		zap.Int("output_length", len(resp.Response)))

	return llm.GenerateResponse{
		Text:         resp.Response,
		FinishReason: resp.DoneReason,
		ProviderName: p.Name(),
		Model:        model,
	}, nil
}

type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}
