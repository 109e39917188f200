package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultChatModel = "o4-mini"

// ErrEmptyCompletion is returned when the model answers with no choices or blank content.
var ErrEmptyCompletion = errors.New("completion returned no content")

// ChatAPI is the subset of the chat completions endpoint the generator needs.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces a reply from a system instruction and a user prompt.
type Generator struct {
	api         ChatAPI
	model       string
	temperature float32
}

func NewGenerator(cfg Config) *Generator {
	return NewGeneratorWithAPI(openai.NewClientWithConfig(cfg.clientConfig()), cfg.ChatModel, cfg.ChatTemperature)
}

func NewGeneratorWithAPI(api ChatAPI, model string, temperature float32) *Generator {
	if model == "" {
		model = DefaultChatModel
	}
	return &Generator{api: api, model: model, temperature: temperature}
}

func (g *Generator) Model() string {
	return g.model
}

// Generate sends one system message and one user message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(user) == "" {
		return "", ErrEmptyText
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
