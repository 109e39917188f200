package service

import (
	"context"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Replace(ctx context.Context, collection string, docs []domain.VectorDocument) error {
	args := m.Called(ctx, collection, docs)
	return args.Error(0)
}

func (m *MockVectorStore) Search(ctx context.Context, collection string, embedding []float32, k int) ([]domain.VectorMatch, error) {
	args := m.Called(ctx, collection, embedding, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VectorMatch), args.Error(1)
}

func (m *MockVectorStore) Count(ctx context.Context, collection string) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, collection, query string, k int) ([]domain.VectorMatch, error) {
	args := m.Called(ctx, collection, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VectorMatch), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

type MockOrderFinder struct {
	mock.Mock
}

func (m *MockOrderFinder) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type MockProductSearcher struct {
	mock.Mock
}

func (m *MockProductSearcher) Search(ctx context.Context, query string, filters domain.ProductFilters) ([]domain.Product, error) {
	args := m.Called(ctx, query, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockPolicySearcher struct {
	mock.Mock
}

func (m *MockPolicySearcher) Query(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type staticCatalog []domain.Product

func (c staticCatalog) Products() []domain.Product {
	out := make([]domain.Product, len(c))
	copy(out, c)
	return out
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Notebook X", Category: "eletrônicos", Price: 4500, Description: "Notebook leve com 16GB de RAM", Available: true},
		{ID: "2", Name: "Smartphone Y", Category: "eletrônicos", Price: 2500, Description: "Celular com câmera tripla", Available: true},
		{ID: "3", Name: "Jogo de Panelas", Category: "casa", Price: 399.9, Description: "Conjunto antiaderente para cozinha", Available: true},
		{ID: "4", Name: "Tênis de Corrida", Category: "esportes", Price: 299.9, Description: "Amortecimento para corrida", Available: false},
		{ID: "5", Name: "Livro Go na Prática", Category: "livros", Price: 89.9, Description: "Programação em Go", Available: true},
		{ID: "6", Name: "Notebook Gamer Z", Category: "eletrônicos", Price: 8900, Description: "Placa de vídeo dedicada", Available: true},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
