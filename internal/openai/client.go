// Package openai adapts the OpenAI embeddings and chat completion endpoints to
// the assistant's EmbeddingClient and Generator contracts.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultEmbeddingModel = string(openai.AdaEmbeddingV2)
	// DefaultEmbeddingDimensions matches text-embedding-ada-002.
	DefaultEmbeddingDimensions = 1536
)

var (
	ErrEmptyText       = errors.New("text cannot be empty")
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	ErrNoEmbedding     = errors.New("no embedding data returned")
)

// EmbeddingAPI is the subset of the embeddings endpoint the client needs.
// *openai.Client satisfies it.
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config carries the settings shared by the embedding client and the generator.
type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      string
	EmbeddingDimensions int
	ChatModel           string
	ChatTemperature     float32
}

func (c Config) clientConfig() openai.ClientConfig {
	cc := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cc.BaseURL = c.BaseURL
	}
	return cc
}

// Client embeds one text per request and checks the vector size.
type Client struct {
	api        EmbeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

func NewClientWithConfig(cfg Config) *Client {
	return NewClientWithAPI(openai.NewClientWithConfig(cfg.clientConfig()), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
}

// NewClientWithAPI builds a client over any EmbeddingAPI; zero values select the defaults.
func NewClientWithAPI(api EmbeddingAPI, model string, dimensions int) *Client {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{api: api, model: openai.EmbeddingModel(model), dimensions: dimensions}
}

func (c *Client) Dimensions() int {
	return c.dimensions
}

func (c *Client) Model() string {
	return string(c.model)
}

func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoEmbedding
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWrongDimensions, len(embedding), c.dimensions)
	}
	return embedding, nil
}
