package daemon

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/spf13/cobra"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed the catalog into the vector index and exit",
		Long: `Embed every product and policy chunk into the configured vector index.

With VITRINE_DATABASE_URL set the index is persisted in pgvector and a later
"serve --reuse-index" starts without re-embedding. Without it the index lives
in memory and the command only validates the catalog.`,
		RunE: runIndex,
	}

	cmd.Flags().String("data-dir", "", "Directory holding the catalog documents (overrides VITRINE_DATA_DIR)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	a, err := newApp(ctx, cfg, logger, appOptions{migrate: !noMigrate})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.buildIndex(ctx, false); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	for _, collection := range []string{domain.CollectionProducts, domain.CollectionPolicies} {
		n, err := a.store.Count(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", collection, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d documents\n", collection, n)
	}
	return nil
}
