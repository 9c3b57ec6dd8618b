package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show armature status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s armature Status\n\n", logo)

	fmt.Printf("Config:    %s %s\n", cfgPath, existsMark(cfgPath))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Modelfile: %s %s\n", cfg.ModelfilePath(), existsMark(cfg.ModelfilePath()))
	fmt.Printf("Waypoints: %s %s\n", cfg.WaypointsPath(), existsMark(cfg.WaypointsPath()))
	fmt.Printf("Provider:  %s\n", cfg.Provider.Kind)
	fmt.Printf("Model:     %s\n\n", cfg.Interpreter.Model)

	if cfg.Provider.Kind == "openai" {
		host := cfg.Provider.APIBase
		if host == "" {
			host = cfg.Provider.Host
		}
		fmt.Printf("Server:    %s (health probe not supported)\n", host)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ver, err := providers.NewLoader(cfg.Provider.Host).Version(ctx)
	if err != nil {
		fmt.Printf("Server:    %s ✗ (%v)\n", cfg.Provider.Host, err)
		return nil
	}
	fmt.Printf("Server:    %s ✓ (ollama %s)\n", cfg.Provider.Host, ver)
	return nil
}

func existsMark(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "✓"
	}
	return "✗"
}
