// Package providers implements the model-provider and model-loader
// capabilities: concrete HTTP clients for Ollama's native API and for
// OpenAI-compatible endpoints. The contracts they satisfy live in
// internal/schema.
package providers

import (
	"strings"
)

const defaultOllamaHost = "http://localhost:11434"

func friendlyHTTPError(code int, body []byte) string {
	if code == 429 {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
