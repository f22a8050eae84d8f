// File path: internal/llm/local.go
package llm

import "context"

// localProvider is the offline stand-in used when no API key is configured.
// It reports ErrUnavailable so callers take their demo and keyword fallbacks.
type localProvider struct{}

func (localProvider) Name() string { return "local" }

func (localProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	return "", ErrUnavailable
}

func (localProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, ErrUnavailable
}
