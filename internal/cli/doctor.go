package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deniskropp/gemini-repo-cli/internal/llm/providers/gemini"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Model: %s, temperature: %v, max output tokens: %d\n",
				cfg.Model, cfg.Generation.Temperature, cfg.Generation.MaxOutputTokens)

			if os.Getenv(gemini.APIKeyEnvVar) != "" {
				fmt.Fprintf(out, "API key: %s is set\n", gemini.APIKeyEnvVar)
			} else {
				fmt.Fprintf(out, "API key: %s is not set (pass --api-key or export it)\n", gemini.APIKeyEnvVar)
			}
			return nil
		},
	}
}
