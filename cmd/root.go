// Package cmd implements the armature CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🦾"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "armature",
	Short: logo + " armature — natural-language robotic arm control",
	Long:  logo + " armature — drive a robotic arm with natural-language commands interpreted by a local model",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(interpretCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scheduleCmd)
}
