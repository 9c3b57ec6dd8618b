package providers

import (
	"github.com/armature/armature/internal/schema"
)

// Params carries the raw config values needed to build a provider.
// The caller extracts these from config.Config to avoid an import cycle.
type Params struct {
	Kind    string // "ollama" (default) | "openai"
	Host    string // Ollama server, native API
	APIKey  string // OpenAI-compatible endpoints only
	APIBase string // OpenAI-compatible endpoints only
	Model   string
}

// New builds the ChatProvider selected by p.Kind.
func New(p Params) schema.ChatProvider {
	switch p.Kind {
	case "openai":
		return NewOpenAI(p.APIKey, p.APIBase, p.Model)
	default:
		return NewOllama(p.Host, p.Model)
	}
}
