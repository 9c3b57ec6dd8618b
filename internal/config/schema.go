// Package config defines the configuration schema for armature.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ProviderConfig selects and configures the model provider backend.
type ProviderConfig struct {
	// Kind is "ollama" (native API, default) or "openai"
	// (any OpenAI-compatible chat-completions endpoint).
	Kind    string `json:"kind"`
	Host    string `json:"host"`
	APIKey  string `json:"apiKey,omitempty"`
	APIBase string `json:"apiBase,omitempty"`
}

func defaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Kind: "ollama",
		Host: "http://localhost:11434",
	}
}

// InterpreterConfig holds the interpreter defaults.
type InterpreterConfig struct {
	// Model is the name of the provisioned arm model on the server.
	Model string `json:"model"`
	// Modelfile is the local file the model is built from; generated
	// with documented defaults when absent.
	Modelfile   string  `json:"modelfile"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	// MaxTurns caps model round-trips per command; 0 means unbounded.
	MaxTurns int `json:"maxTurns"`
}

func defaultInterpreterConfig() InterpreterConfig {
	return InterpreterConfig{
		Model:       "arm_model",
		Modelfile:   "~/.armature/Modelfile",
		MaxTokens:   4096,
		Temperature: 0,
		MaxTurns:    0,
	}
}

// ArmConfig configures the arm controller backing the tool set.
type ArmConfig struct {
	// Waypoints is the YAML file of named arm positions; generated with
	// defaults when absent.
	Waypoints string `json:"waypoints"`
}

func defaultArmConfig() ArmConfig {
	return ArmConfig{Waypoints: "~/.armature/waypoints.yaml"}
}

// GatewayConfig configures the WebSocket control gateway.
type GatewayConfig struct {
	Port int `json:"port"`
}

func defaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Port: 18791}
}

// Config is the root configuration object.
type Config struct {
	Provider    ProviderConfig    `json:"provider"`
	Interpreter InterpreterConfig `json:"interpreter"`
	Arm         ArmConfig         `json:"arm"`
	Gateway     GatewayConfig     `json:"gateway"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Provider:    defaultProviderConfig(),
		Interpreter: defaultInterpreterConfig(),
		Arm:         defaultArmConfig(),
		Gateway:     defaultGatewayConfig(),
	}
}

// ModelfilePath returns the Modelfile location with ~ expanded.
func (c *Config) ModelfilePath() string {
	return expandHome(c.Interpreter.Modelfile)
}

// WaypointsPath returns the waypoints file location with ~ expanded.
func (c *Config) WaypointsPath() string {
	return expandHome(c.Arm.Waypoints)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}
