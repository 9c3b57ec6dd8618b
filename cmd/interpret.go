package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/armature/armature/internal/bus"
	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/container"
)

var (
	interpretMessage     string
	interpretNoProvision bool
)

var interpretCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Send natural-language commands to the arm",
	RunE:  runInterpret,
}

func init() {
	interpretCmd.Flags().StringVarP(&interpretMessage, "message", "m", "", "Send a single command and exit")
	interpretCmd.Flags().BoolVar(&interpretNoProvision, "no-provision", false, "Skip model provisioning")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runInterpret(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !interpretNoProvision {
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

	if interpretMessage != "" {
		return runSingleCommand(c, interpretMessage)
	}

	return runInteractive(c)
}

// runSingleCommand sends one command to the interpreter and prints the
// response.
func runSingleCommand(c *container.Container, command string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := c.Interpreter().RunWithProgress(ctx, command, func(s string) {
		fmt.Fprintf(os.Stderr, "  ↳ %s\n", s)
	})
	if err != nil {
		return err
	}

	printResponse(res)
	return nil
}

// runInteractive starts the REPL loop: reads lines from stdin, sends each
// to the interpreter via the bus, and waits for each reply before
// prompting again.
func runInteractive(c *container.Container) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForSignals(cancel)

	go func() { _ = c.Loop().Run(ctx) }()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		sendAndWait(ctx, c.Bus(), line)
	}
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()
}

// sendAndWait pushes a command onto the bus and blocks until the
// interpreter publishes the final reply (or ctx is cancelled).
func sendAndWait(ctx context.Context, b bus.Bus, command string) {
	b.PublishCommand(bus.NewCommand("cli", command))

	for {
		select {
		case r := <-b.ReplyChan():
			switch r.Kind {
			case bus.ReplyProgress:
				fmt.Printf("  ↳ %s\n", r.Text)
			case bus.ReplyError:
				fmt.Fprintf(os.Stderr, "Error: %s\n", r.Text)
				return
			default:
				printResponse(r.Text)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func printResponse(text string) {
	fmt.Printf("\n%s armature\n%s\n\n", logo, text)
}
