// Package daemon holds the vitrined commands and the component wiring they share.
package daemon

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/cloo-solutions/vitrine/internal/cache"
	"github.com/cloo-solutions/vitrine/internal/catalog"
	"github.com/cloo-solutions/vitrine/internal/config"
	"github.com/cloo-solutions/vitrine/internal/database"
	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/cloo-solutions/vitrine/internal/metrics"
	"github.com/cloo-solutions/vitrine/internal/openai"
	"github.com/cloo-solutions/vitrine/internal/repository"
	"github.com/cloo-solutions/vitrine/internal/service"
	"github.com/cloo-solutions/vitrine/internal/storage"
	"github.com/rs/zerolog"
)

// app owns every long-lived collaborator of the daemon.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics

	source   catalog.Source
	orders   *catalog.OrderCatalog
	products *catalog.ProductCatalog
	policies []domain.PolicyDocument

	embedding service.EmbeddingClient
	store     service.VectorStore
	indexer   *service.Indexer

	health  map[string]handlers.HealthCheck
	closers []func()
}

type appOptions struct {
	migrate bool
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts appOptions) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
		health:  make(map[string]handlers.HealthCheck),
	}
	a.metrics.RegisterIntents(intentLabels())

	if err := a.initSource(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.loadCatalogs(ctx)

	if err := a.initEmbedding(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initStore(ctx, opts.migrate); err != nil {
		a.Close()
		return nil, err
	}

	a.indexer = service.NewIndexer(a.embedding, a.store, service.ChunkConfig{
		MaxChars: cfg.ChunkSize,
		Overlap:  cfg.ChunkOverlap,
	}, logger)

	return a, nil
}

func (a *app) initSource(ctx context.Context) error {
	if !a.cfg.HasS3() {
		a.source = catalog.FileSource{}
		a.logger.Info().Str("data_dir", a.cfg.DataDir).Msg("reading catalog from local files")
		return nil
	}

	s3Client, err := storage.NewS3Client(ctx, s3Config(a.cfg))
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3Client.CheckBucket(ctx); err != nil {
		return fmt.Errorf("failed to reach catalog bucket: %w", err)
	}

	a.source = catalog.NewS3Source(s3Client)
	a.health["catalog_bucket"] = s3Client.CheckBucket
	a.logger.Info().Str("bucket", a.cfg.S3Bucket).Msg("reading catalog from S3")
	return nil
}

func (a *app) loadCatalogs(ctx context.Context) {
	a.orders = catalog.NewOrderCatalog(a.source, a.cfg.DocumentPath(a.cfg.OrdersFile), a.logger)
	a.products = catalog.LoadProducts(ctx, a.source, a.cfg.DocumentPath(a.cfg.ProductsFile), a.logger)

	names := make([]string, 0, len(a.cfg.PolicyFiles))
	for _, name := range a.cfg.PolicyFiles {
		names = append(names, a.cfg.DocumentPath(name))
	}
	a.policies = catalog.LoadPolicies(ctx, a.source, names, a.logger)

	a.logger.Info().
		Int("products", a.products.Len()).
		Int("policy_documents", len(a.policies)).
		Msg("catalog loaded")
}

func (a *app) initEmbedding(ctx context.Context) error {
	var (
		base      service.EmbeddingClient
		namespace string
	)
	if a.cfg.HasOpenAI() {
		base = openai.NewClientWithConfig(openai.Config{
			APIKey:         a.cfg.OpenAIAPIKey,
			EmbeddingModel: a.cfg.EmbeddingModel,
		})
		namespace = a.cfg.EmbeddingModel
	} else {
		base = service.NewHashingEmbedder(service.DefaultHashingDimensions)
		namespace = "hashing"
		a.logger.Warn().Msg("no OpenAI key configured, using the offline hashing embedder")
	}

	var store cache.Client
	if a.cfg.HasRedis() {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisCache.Close() })
		a.health["redis"] = redisCache.Ping
		store = redisCache
		a.logger.Info().Str("addr", a.cfg.RedisAddr).Msg("embedding cache: redis")
	} else {
		store = cache.NewLRU(a.cfg.EmbeddingCacheSize, a.cfg.EmbeddingCacheTTL)
	}

	a.embedding = service.NewCachedEmbeddingClient(base, store, namespace, a.cfg.EmbeddingCacheTTL, a.logger)
	return nil
}

func (a *app) initStore(ctx context.Context, migrate bool) error {
	if !a.cfg.HasDatabase() {
		a.store = repository.NewMemoryVectorStore()
		return nil
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:             a.cfg.DatabaseURL,
		MaxConns:        a.cfg.DatabaseMaxConns,
		ConnectAttempts: a.cfg.DatabaseConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if migrate {
		if err := database.Migrate(a.cfg.DatabaseURL, a.cfg.MigrationsDir, a.logger); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	a.closers = append(a.closers, pool.Close)
	a.health["database"] = pool.Ping
	a.store = repository.NewVectorRepository(pool)
	a.logger.Info().Msg("vector index: pgvector")
	return nil
}

// buildIndex embeds the catalog. With reuse set, collections that already hold
// documents are left untouched.
func (a *app) buildIndex(ctx context.Context, reuse bool) error {
	if !reuse || a.collectionEmpty(ctx, domain.CollectionProducts) {
		if err := a.indexer.IndexProducts(ctx, a.products.Products()); err != nil {
			return err
		}
	}
	if !reuse || a.collectionEmpty(ctx, domain.CollectionPolicies) {
		if _, err := a.indexer.IndexPolicies(ctx, a.policies); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) collectionEmpty(ctx context.Context, collection string) bool {
	n, err := a.store.Count(ctx, collection)
	if err != nil {
		a.logger.Warn().Err(err).Str("collection", collection).Msg("failed to count indexed documents")
		return true
	}
	if n > 0 {
		a.logger.Info().Str("collection", collection).Int("documents", n).Msg("reusing existing index")
	}
	return n == 0
}

func (a *app) generator() service.Generator {
	if !a.cfg.HasOpenAI() {
		a.logger.Warn().Msg("no OpenAI key configured, answers that need generation will fail")
		return service.NoOpGenerator{}
	}
	return openai.NewGenerator(openai.Config{
		APIKey:          a.cfg.OpenAIAPIKey,
		ChatModel:       a.cfg.ChatModel,
		ChatTemperature: a.cfg.ChatTemperature,
	})
}

// retrievers share one searcher over the index built by buildIndex.
func (a *app) retrievers() (*service.ProductRetriever, *service.PolicyRetriever) {
	searcher := service.NewVectorSearcher(a.embedding, a.store)
	return service.NewProductRetriever(a.products, searcher, a.cfg.ProductTopN),
		service.NewPolicyRetriever(searcher, a.cfg.PolicyTopK)
}

func (a *app) newAssistant(products service.ProductSearcher, policies service.PolicySearcher) *service.Assistant {
	return service.NewAssistant(service.AssistantConfig{
		Orders:           service.NewOrderLookup(a.orders),
		Products:         products,
		Policies:         policies,
		Composer:         service.NewComposer(a.generator(), a.cfg.GenerationTimeout),
		Transcript:       service.NewTranscriptStore(),
		Metrics:          a.metrics,
		RetrievalTimeout: a.cfg.RetrievalTimeout,
		Logger:           a.logger,
	})
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func intentLabels() []string {
	intents := domain.Intents()
	labels := make([]string, 0, len(intents))
	for _, intent := range intents {
		labels = append(labels, intent.String())
	}
	return labels
}
