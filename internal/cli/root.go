package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deniskropp/gemini-repo-cli/internal/config"
	"github.com/deniskropp/gemini-repo-cli/internal/llm"
	"github.com/deniskropp/gemini-repo-cli/internal/llm/providers/gemini"
	"github.com/deniskropp/gemini-repo-cli/internal/llm/providers/ollama"
	"github.com/deniskropp/gemini-repo-cli/internal/logging"
	"github.com/deniskropp/gemini-repo-cli/internal/output"
	"github.com/deniskropp/gemini-repo-cli/internal/pipeline"
	"github.com/deniskropp/gemini-repo-cli/internal/prompt"
	"github.com/deniskropp/gemini-repo-cli/internal/version"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
	Provider   string
	APIKey     string
	Host       string
	Model      string
	Files      []string
	OutputPath string
	Debug      bool
}

// NewRootCmd constructs the base CLI command tree. The root command itself
// runs a generation: positional repo name, target file, and prompt, with
// context files supplied via --files.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "gemini-repo-cli <repo_name> <target_file> <prompt>",
		Short:         "Generate file content from repository context via Gemini or Ollama",
		Args:          cobra.ExactArgs(3),
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0], args[1], args[2])
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringArrayVarP(&opts.Files, "files", "f", nil, "Context file paths, in reading order (repeatable)")
	cmd.Flags().StringVarP(&opts.Provider, "provider", "p", "", "Generation backend: gemini or ollama (default: gemini)")
	cmd.Flags().StringVarP(&opts.APIKey, "api-key", "k", "", "Gemini API key (default: "+gemini.APIKeyEnvVar+" environment variable)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Ollama host URL (default: "+ollama.HostEnvVar+" environment variable)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model name (default: "+gemini.DefaultModel+" / "+ollama.DefaultModel+")")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Write generated content to this file instead of stdout")

	cmd.AddCommand(NewDoctorCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, opts *Options, repoName, targetFile, userPrompt string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort

	providerName := strings.ToLower(strings.TrimSpace(opts.Provider))
	if providerName == "" {
		providerName = strings.ToLower(strings.TrimSpace(cfg.Provider))
	}

	reg, model, err := buildRegistry(cmd.Context(), opts, cfg, providerName, logger)
	if err != nil {
		return err
	}
	backend, err := reg.Resolve(providerName)
	if err != nil {
		return err
	}

	assembler := prompt.NewAssembler(prompt.NewReader(logger), logger)

	var popts []pipeline.Option
	if cfg.Prompt.DumpPath != "" {
		popts = append(popts, pipeline.WithPromptDump(cfg.Prompt.DumpPath))
	}
	pipe := pipeline.New(assembler, backend, model, logger, popts...)

	text, err := pipe.Run(cmd.Context(), pipeline.Request{
		RepoName:       repoName,
		FilePaths:      opts.Files,
		TargetFileName: targetFile,
		Instruction:    userPrompt,
	})
	if err != nil {
		return err
	}

	writer := output.New(logger)
	writer.Stdout = cmd.OutOrStdout()
	if err := writer.Write(opts.OutputPath, text); err != nil {
		return err
	}

	if opts.OutputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Content written to %s\n", opts.OutputPath)
	}
	return nil
}

// buildRegistry constructs the selected backend and registers it. Only the
// selected provider is built: gemini requires a credential and ollama a
// reachable host, and neither should be demanded when the other is in use.
func buildRegistry(ctx context.Context, opts *Options, cfg *config.Config, providerName string, logger *zap.Logger) (*llm.Registry, string, error) {
	reg := llm.NewRegistry()

	switch providerName {
	case "", "gemini":
		model := opts.Model
		if model == "" {
			model = cfg.Model
		}
		p, err := gemini.New(ctx, gemini.Options{
			APIKey: opts.APIKey,
			Model:  model,
			Config: cfg.GenerateConfig(),
			Logger: logger,
		})
		if err != nil {
			return nil, "", err
		}
		reg.RegisterProvider(p.Name(), p, true)
		return reg, model, nil
	case "ollama":
		model := opts.Model
		if model == "" {
			model = cfg.Ollama.Model
		}
		host := opts.Host
		if host == "" {
			host = cfg.Ollama.Host
		}
		p, err := ollama.New(ollama.Options{
			Host:   host,
			Model:  model,
			Config: cfg.GenerateConfig(),
			Logger: logger,
		})
		if err != nil {
			return nil, "", err
		}
		reg.RegisterProvider(p.Name(), p, true)
		return reg, model, nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q (expected gemini or ollama)", providerName)
	}
}

// loadConfig wraps config loading with shared options.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(opts *Options, cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if opts.Debug {
		level = "debug"
	}
	return logging.NewLogger(level, cfg.Logging.Format)
}
