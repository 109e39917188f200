package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// NoRelevantProductsAnswer replaces a product answer that names no presented product.
const NoRelevantProductsAnswer = "Desculpe, não encontrei produtos relevantes no nosso catálogo."

// Generator produces text from a system instruction and a user prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// NoOpGenerator is used when no language model is configured.
type NoOpGenerator struct{}

func (NoOpGenerator) Generate(context.Context, string, string) (string, error) {
	return "", domain.ErrGeneratorNotConfigured
}

// ComposeRequest carries the classified message and whatever was retrieved for it.
type ComposeRequest struct {
	Intent   domain.Intent
	Message  string
	Products []domain.Product
	Policies []string
}

// Composer builds the grounding prompt, calls the generator and filters product answers.
type Composer struct {
	generator Generator
	timeout   time.Duration
}

func NewComposer(generator Generator, timeout time.Duration) *Composer {
	return &Composer{generator: generator, timeout: timeout}
}

func (c *Composer) Compose(ctx context.Context, req ComposeRequest) (string, error) {
	var prompt string
	switch req.Intent {
	case domain.IntentProduct:
		prompt = BuildProductPrompt(req.Message, req.Products)
	case domain.IntentPolicy:
		prompt = BuildPolicyPrompt(req.Message, req.Policies)
	default:
		prompt = req.Message
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	answer, err := c.generator.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrGeneratorNotConfigured) {
			return "", err
		}
		return "", domain.ErrGenerationFailed.Wrap(err)
	}

	if req.Intent == domain.IntentProduct {
		answer = FilterProductAnswer(answer, req.Products)
	}
	return answer, nil
}

// FilterProductAnswer keeps only the lines that mention a presented product name,
// case-insensitively. With no such line the fixed no-products answer is returned.
func FilterProductAnswer(answer string, products []domain.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return NoRelevantProductsAnswer
	}

	var kept []string
	for _, line := range strings.Split(answer, "\n") {
		lower := strings.ToLower(line)
		for _, name := range names {
			if strings.Contains(lower, name) {
				kept = append(kept, line)
				break
			}
		}
	}
	if len(kept) == 0 {
		return NoRelevantProductsAnswer
	}
	return strings.Join(kept, "\n")
}
