package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultModelfile is written when the configured Modelfile is absent.
// It pins a deterministic sampling setting and a system instruction that
// forces every factual claim about physical objects through tool results.
const DefaultModelfile = `FROM llama3.2:3b
PARAMETER temperature 0
SYSTEM """You have the ability to control a robotic arm using tool calling.
All information about physical objects must be obtained through tool calling, you must not generate any other information about objects.
You don't need to mention the fact that you are using tool calling, this is implied.
You may run multiple consecutive tool calls if necessary."""
`

// ProgressFunc receives incremental status from a model build. completed
// and total are zero when the current step has no measurable size.
type ProgressFunc func(status string, completed, total int64)

// Loader provisions named models on an Ollama server from local Modelfiles.
type Loader struct {
	host       string
	httpClient *http.Client
}

// NewLoader creates a Loader for the Ollama server at host.
func NewLoader(host string) *Loader {
	if host == "" {
		host = defaultOllamaHost
	}
	return &Loader{
		host: strings.TrimRight(host, "/"),
		// Model builds can pull multi-gigabyte base layers.
		httpClient: &http.Client{Timeout: 30 * time.Minute},
	}
}

// EnsureModelfile makes sure a Modelfile exists at path, writing the
// documented default when it is absent. It reports whether the default
// was generated.
func EnsureModelfile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat modelfile %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create modelfile dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultModelfile), 0o644); err != nil {
		return false, fmt.Errorf("write modelfile %s: %w", path, err)
	}
	return true, nil
}

// createProgress is one NDJSON status line from /api/create.
type createProgress struct {
	Status    string `json:"status"`
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
	Error     string `json:"error"`
}

// Create builds the named model from the Modelfile at path, streaming
// build status to onProgress (which may be nil). It blocks until the
// build finishes or fails.
func (l *Loader) Create(ctx context.Context, name, modelfilePath string, onProgress ProgressFunc) error {
	modelfile, err := os.ReadFile(modelfilePath)
	if err != nil {
		return fmt.Errorf("read modelfile %s: %w", modelfilePath, err)
	}

	body, err := json.Marshal(map[string]any{
		"model":     name,
		"modelfile": string(modelfile),
		"stream":    true,
	})
	if err != nil {
		return fmt.Errorf("marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		l.host+"/api/create", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create model %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create model %s: HTTP %d: %s", name, resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var p createProgress
		if err := json.Unmarshal(line, &p); err != nil {
			continue // tolerate junk between status lines
		}
		if p.Error != "" {
			return fmt.Errorf("create model %s: %s", name, p.Error)
		}
		if onProgress != nil && p.Status != "" {
			onProgress(p.Status, p.Completed, p.Total)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read create stream: %w", err)
	}
	return nil
}

// Version probes the server and returns its version string.
// Used by the status command as a health check.
func (l *Loader) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.host+"/api/version", nil)
	if err != nil {
		return "", fmt.Errorf("build version request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("version probe: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read version response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	var body struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("parse version response: %w", err)
	}
	return body.Version, nil
}
