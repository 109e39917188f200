package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/vitrine/internal/cli"
	"github.com/cloo-solutions/vitrine/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitrine",
		Short: "Vitrine CLI - talk to the support assistant",
		Long: `Vitrine CLI sends messages and searches to a running vitrined server.

Environment variables:
  VITRINE_API_URL   API base URL (default: http://localhost:8000)`,
		Version:     version,
		Annotations: map[string]string{cli.EnvAnnotation: "VITRINE_API_URL"},
	}

	client.AddGlobalFlags(rootCmd)
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.KnowledgeCmd())
	rootCmd.AddCommand(client.HistoryCmd())
	rootCmd.AddCommand(client.ConfigCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
