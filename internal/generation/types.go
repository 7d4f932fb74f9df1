package generation

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConfigured is returned when a provider has no API key or model.
	ErrNotConfigured = errors.New("text generation is not configured")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("received an empty response from the API")
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type Options struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	// Timeout bounds a single call. Zero leaves it to ctx and the transport.
	Timeout time.Duration
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
