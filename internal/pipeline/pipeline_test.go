package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
	llmmock "github.com/deniskropp/gemini-repo-cli/internal/llm/mock"
	"github.com/deniskropp/gemini-repo-cli/internal/prompt"
)

func newPipeline(provider llm.Provider, opts ...Option) *Pipeline {
	assembler := prompt.NewAssembler(prompt.NewReader(nil), nil)
	return New(assembler, provider, "test-model", nil, opts...)
}

func TestRunPassesGeneratedTextThrough(t *testing.T) {
	dir := t.TempDir()
	ctxFile := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(ctxFile, []byte("hello"), 0o644))

	mockProvider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{Text: "world"}, nil
		},
	}

	text, err := newPipeline(mockProvider).Run(context.Background(), Request{
		RepoName:       "demo",
		FilePaths:      []string{ctxFile},
		TargetFileName: "out.txt",
		Instruction:    "say hi",
	})
	require.NoError(t, err)
	require.Equal(t, "world", text)

	require.Len(t, mockProvider.Requests, 1)
	req := mockProvider.Requests[0]
	require.Equal(t, "test-model", req.Model)
	require.Len(t, req.Segments, 4)
	require.Equal(t, "say hi", req.Segments[0])
	require.Equal(t, "⫻const:repo_name\ndemo", req.Segments[1])
	require.Equal(t, "⫻context/file:"+ctxFile+"\nhello", req.Segments[2])
	require.Equal(t, "Generate content for the file: out.txt\n", req.Segments[3])
}

func TestRunSurfacesBackendError(t *testing.T) {
	backendErr := &llm.BackendError{
		Provider: "gemini",
		Model:    "test-model",
		Err:      errors.New("quota exceeded for project"),
	}
	mockProvider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{}, backendErr
		},
	}

	_, err := newPipeline(mockProvider).Run(context.Background(), Request{
		RepoName:       "demo",
		TargetFileName: "out.txt",
		Instruction:    "go",
	})
	require.Error(t, err)

	var be *llm.BackendError
	require.ErrorAs(t, err, &be)
	require.Contains(t, err.Error(), "quota exceeded for project")
}

func TestRunAbortsBeforeBackendOnMissingContextFile(t *testing.T) {
	mockProvider := &llmmock.Provider{}

	_, err := newPipeline(mockProvider).Run(context.Background(), Request{
		RepoName:       "demo",
		FilePaths:      []string{filepath.Join(t.TempDir(), "absent.txt")},
		TargetFileName: "out.txt",
		Instruction:    "go",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, prompt.ErrNotFound)
	require.Empty(t, mockProvider.Requests, "no payload must reach the backend")
}

func TestRunValidatesInputs(t *testing.T) {
	mockProvider := &llmmock.Provider{}
	p := newPipeline(mockProvider)

	for _, req := range []Request{
		{TargetFileName: "t", Instruction: "i"},
		{RepoName: "r", Instruction: "i"},
		{RepoName: "r", TargetFileName: "t"},
	} {
		_, err := p.Run(context.Background(), req)
		require.Error(t, err)
	}
	require.Empty(t, mockProvider.Requests)
}

func TestRunIsDeterministicAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	ctxFile := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(ctxFile, []byte("stable"), 0o644))

	mockProvider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{Text: "deterministic"}, nil
		},
	}
	p := newPipeline(mockProvider)
	req := Request{RepoName: "demo", FilePaths: []string{ctxFile}, TargetFileName: "out.txt", Instruction: "go"}

	first, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, mockProvider.Requests, 2)
	require.Equal(t, mockProvider.Requests[0], mockProvider.Requests[1])
}

func TestRunDumpsPromptWhenConfigured(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "prompt.txt")
	mockProvider := &llmmock.Provider{}

	_, err := newPipeline(mockProvider, WithPromptDump(dumpPath)).Run(context.Background(), Request{
		RepoName:       "demo",
		TargetFileName: "out.txt",
		Instruction:    "say hi",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "say hi")
	require.Contains(t, string(data), "⫻const:repo_name\ndemo")
}
