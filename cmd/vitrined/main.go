package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/vitrine/internal/cli"
	"github.com/cloo-solutions/vitrine/internal/cli/daemon"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "vitrined",
		Short:   "Vitrine support assistant server",
		Long:    "Vitrine daemon for serving the customer-support chat API and building its retrieval index",
		Version: version,
		Annotations: map[string]string{
			cli.EnvAnnotation: "VITRINE_PORT,VITRINE_DATA_DIR,VITRINE_OPENAI_API_KEY,VITRINE_DATABASE_URL,VITRINE_REDIS_ADDR,VITRINE_S3_ENDPOINT,VITRINE_SENTRY_DSN",
		},
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(daemon.ServeCmd())
	rootCmd.AddCommand(daemon.IndexCmd())
	rootCmd.AddCommand(daemon.PushCatalogCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
