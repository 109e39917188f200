package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/spf13/cobra"
)

// KnowledgeCmd creates the policy query command.
func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "knowledge <query>",
		Aliases: []string{"policy"},
		Short:   "Query the store policies",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			var resp handlers.KnowledgeQueryResponse
			if err := api.Post(cmd.Context(), "/query/knowledge", handlers.KnowledgeQueryRequest{Query: args[0]}, &resp); err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				output, _ := json.MarshalIndent(resp, "", "  ")
				fmt.Fprintln(out, string(output))
				return nil
			}

			if len(resp.Information) == 0 {
				fmt.Fprintln(out, "No information found.")
				return nil
			}
			for i, passage := range resp.Information {
				fmt.Fprintln(out, strings.TrimSpace(passage))
				if i < len(resp.Information)-1 {
					fmt.Fprintln(out, strings.Repeat("-", 40))
				}
			}
			return nil
		},
	}

	return cmd
}
