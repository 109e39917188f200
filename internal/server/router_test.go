package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/cloo-solutions/vitrine/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ProcessMessage(ctx context.Context, message string, msgContext map[string]any) string {
	args := m.Called(ctx, message, msgContext)
	return args.String(0)
}

func (m *MockChatService) History() []domain.TranscriptEntry {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.TranscriptEntry)
}

func (m *MockChatService) ClearHistory() {
	m.Called()
}

type MockProductSearchService struct {
	mock.Mock
}

func (m *MockProductSearchService) Search(ctx context.Context, query string, filters domain.ProductFilters) ([]domain.Product, error) {
	args := m.Called(ctx, query, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) Query(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type testRouter struct {
	chat      *MockChatService
	products  *MockProductSearchService
	knowledge *MockKnowledgeService
	metrics   *metrics.Metrics
	handler   http.Handler
}

func newTestRouter(t *testing.T, staticDir string) *testRouter {
	t.Helper()
	tr := &testRouter{
		chat:      new(MockChatService),
		products:  new(MockProductSearchService),
		knowledge: new(MockKnowledgeService),
		metrics:   metrics.New(),
	}
	tr.handler = NewRouter(RouterConfig{
		ChatHandler:   handlers.NewChatHandler(tr.chat),
		SearchHandler: handlers.NewSearchHandler(tr.products, tr.knowledge, zerolog.Nop()),
		Metrics:       tr.metrics,
		StaticDir:     staticDir,
		Logger:        zerolog.Nop(),
	})
	return tr
}

func (tr *testRouter) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	tr.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthEndpoint(t *testing.T) {
	tr := newTestRouter(t, "")

	w := tr.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_PreflightAnsweredByCORS(t *testing.T) {
	tr := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://loja.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	tr.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, []string{"*", "http://loja.example"}, w.Header().Get("Access-Control-Allow-Origin"))
	tr.chat.AssertNotCalled(t, "ProcessMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_ChatRoutes(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.chat.On("ProcessMessage", mock.Anything, "Olá", map[string]any(nil)).Return("Olá! Como posso ajudar?")
	tr.chat.On("History").Return([]domain.TranscriptEntry{{User: "Olá", Assistant: "Olá! Como posso ajudar?"}})
	tr.chat.On("ClearHistory").Return()

	w := tr.do(http.MethodPost, "/chat", `{"content":"Olá"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Olá! Como posso ajudar?"}`, w.Body.String())

	w = tr.do(http.MethodGet, "/chat/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var history handlers.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.History, 1)

	w = tr.do(http.MethodDelete, "/chat/history", "")
	assert.Equal(t, http.StatusOK, w.Code)

	tr.chat.AssertExpectations(t)
}

func TestRouter_SearchRoutes(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.products.On("Search", mock.Anything, "notebook", domain.ProductFilters{}).Return([]domain.Product{{ID: "1", Name: "Notebook X"}}, nil)
	tr.knowledge.On("Query", mock.Anything, "garantia").Return([]string{"Garantia de 12 meses."}, nil)

	w := tr.do(http.MethodPost, "/search/products", `{"query":"notebook"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nome":"Notebook X"`)

	w = tr.do(http.MethodPost, "/query/knowledge", `{"query":"garantia"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"information":["Garantia de 12 meses."]}`, w.Body.String())
}

func TestRouter_PanicBecomesGenericError(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.chat.On("ProcessMessage", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") }).
		Return("")

	w := tr.do(http.MethodPost, "/chat", `{"content":"oi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Ocorreu um erro interno. Por favor, tente novamente mais tarde."}`, w.Body.String())
}

func TestRouter_MethodAndRouteMismatch(t *testing.T) {
	tr := newTestRouter(t, "")

	assert.Equal(t, http.StatusMethodNotAllowed, tr.do(http.MethodGet, "/chat", "").Code)
	assert.Equal(t, http.StatusNotFound, tr.do(http.MethodGet, "/unknown", "").Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.do(http.MethodGet, "/health", "")

	w := tr.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `vitrine_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>vitrine</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	tr := newTestRouter(t, dir)

	w := tr.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>vitrine</h1>")

	w = tr.do(http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())
}

func TestRouter_NoStaticDir(t *testing.T) {
	tr := newTestRouter(t, "")

	assert.Equal(t, http.StatusNotFound, tr.do(http.MethodGet, "/", "").Code)
}
