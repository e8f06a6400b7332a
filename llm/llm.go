// Package llm is the completion-model boundary: a single instruction string
// in, raw text out. The pipeline decides what to do with the text.
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ErrUnavailable marks the completion model as unreachable. The orchestration
// layer switches to the heuristic translator when it sees this.
var ErrUnavailable = errors.New("completion model unavailable")

// Generator produces a completion for a single instruction prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaGenerator talks to a local Ollama server through langchaingo.
type OllamaGenerator struct {
	llm *ollama.LLM
}

func NewOllamaGenerator(modelName string) (*OllamaGenerator, error) {
	opts := []ollama.Option{ollama.WithModel(modelName)}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		opts = append(opts, ollama.WithServerURL(host))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create ollama client")
	}
	return &OllamaGenerator{llm: client}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		// A local model either answers or is down; there is no partial
		// failure worth distinguishing here.
		return "", errors.Wrap(ErrUnavailable, err.Error())
	}
	return strings.TrimSpace(completion), nil
}
