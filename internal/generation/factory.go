package generation

import (
	"context"
	"fmt"
	"strings"
)

func NewGenerator(ctx context.Context, opts Options) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiGenerator(ctx, opts)
	case "openai":
		return NewOpenAIGenerator(opts)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", opts.Provider)
	}
}
