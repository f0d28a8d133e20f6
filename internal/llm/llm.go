// Package llm wraps the text generation provider used for cover letters.
package llm

import (
	"context"
	"errors"
)

// Client generates free text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm not configured")

// PlaceholderClient is used when no provider key is set.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
