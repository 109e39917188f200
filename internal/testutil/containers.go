// Package testutil starts the backing services used by integration and e2e tests.
package testutil

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/cloo-solutions/vitrine/internal/database"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "pgvector/pgvector:0.8.1-pg18"
	redisImage    = "redis:7-alpine"
	rustfsImage   = "rustfs/rustfs:latest"

	postgresCredential = "vitrine"
	RustFSAccessKey    = "rustfsadmin"
	RustFSSecretKey    = "rustfsadmin"
)

// Service is a started container and the host address of its main port.
type Service struct {
	Container testcontainers.Container
	Host      string
	Port      string
}

// Addr returns host:port.
func (s *Service) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func (s *Service) Terminate(ctx context.Context) error {
	if s == nil || s.Container == nil {
		return nil
	}
	return testcontainers.TerminateContainer(s.Container)
}

func startService(ctx context.Context, t *testing.T, name string, port nat.Port, req testcontainers.ContainerRequest) Service {
	t.Helper()

	req.ExposedPorts = []string{string(port) + "/tcp"}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s container: %v", name, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get %s host: %v", name, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get %s port: %v", name, err)
	}

	return Service{Container: container, Host: host, Port: mapped.Port()}
}

// PostgresContainer runs Postgres with the pgvector extension available.
type PostgresContainer struct {
	Service
}

func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	svc := startService(ctx, t, "postgres", "5432", testcontainers.ContainerRequest{
		Image: postgresImage,
		Env: map[string]string{
			"POSTGRES_USER":     postgresCredential,
			"POSTGRES_PASSWORD": postgresCredential,
			"POSTGRES_DB":       postgresCredential,
		},
		// Postgres logs readiness once for the init server and again for the real one.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	})
	return &PostgresContainer{Service: svc}
}

// ConnectionString returns a DSN suitable for VITRINE_DATABASE_URL.
func (pc *PostgresContainer) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		postgresCredential, postgresCredential, pc.Addr(), postgresCredential)
}

// RedisContainer runs a throwaway Redis for the embedding cache.
type RedisContainer struct {
	Service
}

func NewRedisContainer(ctx context.Context, t *testing.T) *RedisContainer {
	svc := startService(ctx, t, "redis", "6379", testcontainers.ContainerRequest{
		Image: redisImage,
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort("6379/tcp"),
		).WithStartupTimeout(30 * time.Second),
	})
	return &RedisContainer{Service: svc}
}

// RustFSContainer runs an S3-compatible object store for the catalog bucket.
type RustFSContainer struct {
	Service
}

func NewRustFSContainer(ctx context.Context, t *testing.T) *RustFSContainer {
	svc := startService(ctx, t, "rustfs", "9000", testcontainers.ContainerRequest{
		Image: rustfsImage,
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": RustFSAccessKey,
			"RUSTFS_SECRET_KEY": RustFSSecretKey,
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	})
	return &RustFSContainer{Service: svc}
}

// Endpoint returns the S3 endpoint URL.
func (rc *RustFSContainer) Endpoint() string {
	return "http://" + rc.Addr()
}

// NewTestPool connects to pc, retrying while the server finishes starting, and
// applies the migrations in migrationsDir with the same migrator the daemon uses.
func NewTestPool(ctx context.Context, t *testing.T, pc *PostgresContainer, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	pool, err := database.NewPool(ctx, database.Config{URL: pc.ConnectionString(), ConnectAttempts: 5})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := database.Migrate(pc.ConnectionString(), migrationsDir, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	return pool
}

// TruncateAll empties the vector table between tests.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE vector_documents"); err != nil {
		return fmt.Errorf("failed to truncate vector_documents: %w", err)
	}
	return nil
}
