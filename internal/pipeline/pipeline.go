package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
	"github.com/deniskropp/gemini-repo-cli/internal/prompt"
)

// Request carries the caller inputs for one pipeline run. Values are owned by
// the call; nothing is retained across runs.
type Request struct {
	RepoName       string
	FilePaths      []string
	TargetFileName string
	Instruction    string
}

// Pipeline drives one generation cycle: validate inputs, assemble the tagged
// prompt, submit it, return the generated text. Stage failures surface with
// their kind unchanged and abort the remaining stages.
type Pipeline struct {
	assembler *prompt.Assembler
	provider  llm.Provider
	model     string
	dumpPath  string
	logger    *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPromptDump writes a copy of each assembled prompt to path. Diagnostic
// only; dump failures are logged and never fail the run.
func WithPromptDump(path string) Option {
	return func(p *Pipeline) { p.dumpPath = path }
}

// New constructs a Pipeline submitting requests to provider for model.
func New(assembler *prompt.Assembler, provider llm.Provider, model string, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		assembler: assembler,
		provider:  provider,
		model:     model,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one request/response cycle and returns the generated text.
func (p *Pipeline) Run(ctx context.Context, req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	segments, err := p.assembler.Assemble(req.RepoName, req.FilePaths, req.TargetFileName, req.Instruction)
	if err != nil {
		return "", err
	}

	if p.dumpPath != "" {
		p.dumpPrompt(segments)
	}

	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		Model:    p.model,
		Segments: segments,
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.RepoName) == "" {
		return fmt.Errorf("repo name cannot be empty")
	}
	if strings.TrimSpace(req.TargetFileName) == "" {
		return fmt.Errorf("target file name cannot be empty")
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	return nil
}

func (p *Pipeline) dumpPrompt(segments []string) {
	data := strings.Join(segments, "\n\n")
	if err := os.WriteFile(p.dumpPath, []byte(data), 0o644); err != nil {
		p.logger.Warn("prompt dump failed",
			zap.String("event", "prompt_dump"),
			zap.String("path", p.dumpPath),
			zap.Error(err))
		return
	}
	p.logger.Debug("prompt dumped",
		zap.String("event", "prompt_dump"),
		zap.String("path", p.dumpPath))
}
