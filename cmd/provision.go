package cmd

import (
	"context"
	"fmt"

	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/providers"
)

// provisionModel makes sure the arm model exists on the Ollama server,
// generating the default Modelfile first when none exists. OpenAI-compatible
// providers manage their own models, so provisioning is skipped for them.
func provisionModel(ctx context.Context, cfg *config.Config) error {
	if cfg.Provider.Kind == "openai" {
		return nil
	}

	mfPath := cfg.ModelfilePath()
	generated, err := providers.EnsureModelfile(mfPath)
	if err != nil {
		return err
	}
	if generated {
		fmt.Printf("✓ Generated default Modelfile at %s\n", mfPath)
	}

	fmt.Printf("Provisioning model %q...\n", cfg.Interpreter.Model)
	loader := providers.NewLoader(cfg.Provider.Host)
	err = loader.Create(ctx, cfg.Interpreter.Model, mfPath, renderCreateProgress)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("provision model: %w", err)
	}
	fmt.Printf("✓ Model %q ready\n", cfg.Interpreter.Model)
	return nil
}

// renderCreateProgress redraws one status line as build status streams in.
func renderCreateProgress(status string, completed, total int64) {
	if total > 0 {
		fmt.Printf("\r  %s %3d%%", status, completed*100/total)
		return
	}
	fmt.Printf("\r  %-40s", status)
}
