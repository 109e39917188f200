package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/config"
	"github.com/cloo-solutions/vitrine/internal/storage"
	"github.com/spf13/cobra"
)

// PushCatalogCmd returns the push-catalog command
func PushCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push-catalog",
		Short: "Upload the local catalog documents to the S3 bucket",
		Long: `Upload the order, product and policy documents found in the data directory
to the configured bucket, creating it if needed. Object keys are the configured
document names, which is where "serve" reads them from when S3 is enabled.`,
		Args: cobra.NoArgs,
		RunE: runPushCatalog,
	}

	cmd.Flags().String("data-dir", "", "Directory holding the catalog documents (overrides VITRINE_DATA_DIR)")

	return cmd
}

func runPushCatalog(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.HasS3() {
		return fmt.Errorf("S3 is not configured: set VITRINE_S3_ENDPOINT, VITRINE_S3_ACCESS_KEY_ID and VITRINE_S3_SECRET_ACCESS_KEY")
	}

	ctx := cmd.Context()
	client, err := storage.NewS3Client(ctx, s3Config(cfg))
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return err
	}

	for _, name := range catalogDocuments(cfg) {
		if err := pushDocument(ctx, client, cfg.DataDir, name); err != nil {
			return err
		}
		logger.Info().Str("key", name).Str("bucket", cfg.S3Bucket).Msg("catalog document uploaded")
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n", name)
	}
	return nil
}

func s3Config(cfg *config.Config) storage.S3ClientConfig {
	return storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	}
}

func catalogDocuments(cfg *config.Config) []string {
	names := []string{cfg.OrdersFile, cfg.ProductsFile}
	for _, name := range cfg.PolicyFiles {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func pushDocument(ctx context.Context, client *storage.S3Client, dataDir, name string) error {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(dataDir, name)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return client.PutObject(ctx, name, body, contentType(name))
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
