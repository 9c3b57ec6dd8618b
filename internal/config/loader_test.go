package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Interpreter.Model != def.Interpreter.Model {
		t.Errorf("expected default model %q, got %q", def.Interpreter.Model, cfg.Interpreter.Model)
	}
	if cfg.Provider.Kind != "ollama" {
		t.Errorf("expected default provider kind ollama, got %q", cfg.Provider.Kind)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"interpreter": map[string]any{
			"model":    "arm_model_large",
			"maxTurns": 12,
		},
		"provider": map[string]any{
			"host": "http://robot-host:11434",
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Interpreter.Model != "arm_model_large" {
		t.Errorf("expected model %q, got %q", "arm_model_large", cfg.Interpreter.Model)
	}
	if cfg.Interpreter.MaxTurns != 12 {
		t.Errorf("expected maxTurns 12, got %d", cfg.Interpreter.MaxTurns)
	}
	if cfg.Provider.Host != "http://robot-host:11434" {
		t.Errorf("unexpected host %q", cfg.Provider.Host)
	}
	// Untouched sections keep their defaults.
	if cfg.Gateway.Port != 18791 {
		t.Errorf("expected default gateway port, got %d", cfg.Gateway.Port)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected defaults for invalid JSON, got error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Interpreter.Model != def.Interpreter.Model {
		t.Errorf("expected default model after parse failure, got %q", cfg.Interpreter.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Interpreter.MaxTurns = 8
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Interpreter.MaxTurns != 8 {
		t.Errorf("expected maxTurns 8 after round trip, got %d", loaded.Interpreter.MaxTurns)
	}
}
