package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/api"
	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
)

type ProductSearchService interface {
	Search(ctx context.Context, query string, filters domain.ProductFilters) ([]domain.Product, error)
}

type KnowledgeService interface {
	Query(ctx context.Context, query string) ([]string, error)
}

// SearchHandler exposes the retrievers directly, without generation.
type SearchHandler struct {
	products  ProductSearchService
	knowledge KnowledgeService
	logger    zerolog.Logger
}

func NewSearchHandler(products ProductSearchService, knowledge KnowledgeService, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		products:  products,
		knowledge: knowledge,
		logger:    logger.With().Str("component", "search_handler").Logger(),
	}
}

type ProductSearchRequest struct {
	Query   string                 `json:"query"`
	Filters *domain.ProductFilters `json:"filters,omitempty"`
}

type ProductSearchResponse struct {
	Products []domain.Product `json:"products"`
}

type KnowledgeQueryRequest struct {
	Query string `json:"query"`
}

type KnowledgeQueryResponse struct {
	Information []string `json:"information"`
}

func (h *SearchHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var req ProductSearchRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.HandleError(w, domain.ErrMissingQuery)
		return
	}

	var filters domain.ProductFilters
	if req.Filters != nil {
		filters = *req.Filters
	}

	products, err := h.products.Search(r.Context(), req.Query, filters)
	if err != nil {
		h.logError(r, err, "search_products")
		api.HandleError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	api.JSON(w, http.StatusOK, ProductSearchResponse{Products: products})
}

func (h *SearchHandler) QueryKnowledge(w http.ResponseWriter, r *http.Request) {
	var req KnowledgeQueryRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.HandleError(w, domain.ErrMissingQuery)
		return
	}

	passages, err := h.knowledge.Query(r.Context(), req.Query)
	if err != nil {
		h.logError(r, err, "query_knowledge")
		api.HandleError(w, err)
		return
	}
	if passages == nil {
		passages = []string{}
	}

	api.JSON(w, http.StatusOK, KnowledgeQueryResponse{Information: passages})
}

// logError records server-side failures, on the request-scoped logger when
// the access log middleware installed one.
func (h *SearchHandler) logError(r *http.Request, err error, endpoint string) {
	if api.DomainErrorToHTTP(err) < http.StatusInternalServerError {
		return
	}
	log := h.logger
	if scoped := zerolog.Ctx(r.Context()); scoped.GetLevel() != zerolog.Disabled {
		log = scoped.With().Str("component", "search_handler").Logger()
	}
	log.Error().Err(err).Str("endpoint", endpoint).Msg("request failed")
}
