package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/container"
)

var (
	gatewayPort        int
	gatewayNoProvision bool
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the armature control gateway",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "Gateway port (overrides config)")
	gatewayCmd.Flags().BoolVar(&gatewayNoProvision, "no-provision", false, "Skip model provisioning")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if gatewayPort != 0 {
		cfg.Gateway.Port = gatewayPort
	}

	if !gatewayNoProvision {
		provCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := provisionModel(provCtx, cfg); err != nil {
			return err
		}
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting armature gateway on port %d...\n", logo, cfg.Gateway.Port)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Loop().Run(gctx) })
	g.Go(func() error { return c.Gateway().Start(gctx) })
	g.Go(func() error { return c.Schedule().Start(gctx) })

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
