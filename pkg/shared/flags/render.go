package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/config"
)

func AddRender(cmd *cobra.Command) {
	cmd.Flags().
		String(
			"render",
			"",
			"Output mode for entry bodies: auto, plain or markdown (defaults to the configured mode)",
		)
}

// HandleRender returns the --render value, falling back to the configured
// mode when the flag is not given.
func HandleRender(cmd *cobra.Command, cfg *config.Config) (string, error) {
	mode, err := cmd.Flags().GetString("render")
	if err != nil {
		return "", err
	}

	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		if cfg == nil {
			return "auto", nil
		}
		return cfg.Render, nil
	}

	if err := config.ValidateRenderMode(mode); err != nil {
		return "", fmt.Errorf("invalid --render value: %w", err)
	}
	return mode, nil
}
