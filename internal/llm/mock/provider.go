package mock

import (
	"context"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
)

// Provider is a test double implementing llm.Provider.
type Provider struct {
	NameValue  string
	GenerateFn func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error)
	Requests   []llm.GenerateRequest
}

func (p *Provider) Name() string {
	if p.NameValue != "" {
		return p.NameValue
	}
	return "mock"
}

func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	p.Requests = append(p.Requests, req)
	if p.GenerateFn != nil {
		return p.GenerateFn(ctx, req)
	}
	return llm.GenerateResponse{Text: "mock", ProviderName: p.Name(), Model: req.Model}, nil
}
