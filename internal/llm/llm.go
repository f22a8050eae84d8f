// File path: internal/llm/llm.go
package llm

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/logicforge/logicforge/internal/common"
)

// ErrUnavailable signals that no language model backend is configured. Callers
// fall back to canned demo content or keyword search.
var ErrUnavailable = errors.New("llm provider unavailable")

// Role constants for chat messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string
	Content string
}

// Provider abstracts the language model backend. Chat produces a completion
// for the given transcript; Embed returns one vector per input text.
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// NewProviderFromEnv selects the provider from the environment. An OpenAI
// provider is used when OPENAI_API_KEY is set; otherwise the offline demo
// provider serves fallback content.
func NewProviderFromEnv() Provider {
	logger := common.Logger()
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		provider := newOpenAIProvider(key)
		logger.Info("llm: provider configured", "provider", provider.Name(), "chat_model", provider.chatModel, "embed_model", provider.embedModel)
		return provider
	}
	logger.Warn("llm: no API key configured, using offline demo provider")
	return localProvider{}
}
