package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/armature/armature/internal/arm"
	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/providers"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration, Modelfile, and waypoints",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	generated, err := providers.EnsureModelfile(cfg.ModelfilePath())
	if err != nil {
		return err
	}
	if generated {
		fmt.Printf("✓ Generated default Modelfile at %s\n", cfg.ModelfilePath())
	} else {
		fmt.Printf("✓ Modelfile at %s\n", cfg.ModelfilePath())
	}

	_, created, err := arm.LoadWaypoints(cfg.WaypointsPath())
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("✓ Generated default waypoints at %s\n", cfg.WaypointsPath())
	} else {
		fmt.Printf("✓ Waypoints at %s\n", cfg.WaypointsPath())
	}

	fmt.Printf("\n%s armature is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Make sure an Ollama server is running at %s\n", cfg.Provider.Host)
	fmt.Printf("  2. Try it: armature interpret -m \"scan the workspace\"\n")
	return nil
}
