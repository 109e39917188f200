package client

import (
	"encoding/json"
	"fmt"

	"github.com/cloo-solutions/vitrine/internal/api"
	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/spf13/cobra"
)

// HistoryCmd creates the history command.
func HistoryCmd() *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			if clearHistory {
				return runClearHistory(cmd, apiClient, outputJSON)
			}
			return runHistory(cmd, apiClient, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Clear the history instead of printing it")

	return cmd
}

func runHistory(cmd *cobra.Command, client *APIClient, outputJSON bool) error {
	var resp handlers.HistoryResponse
	if err := client.Get(cmd.Context(), "/chat/history", &resp); err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(resp.History) == 0 {
		fmt.Fprintln(out, "No messages yet.")
		return nil
	}
	for _, entry := range resp.History {
		fmt.Fprintf(out, "[%s]\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "você> %s\n", entry.User)
		fmt.Fprintf(out, "assistente> %s\n\n", entry.Assistant)
	}
	return nil
}

func runClearHistory(cmd *cobra.Command, client *APIClient, outputJSON bool) error {
	var resp api.MessageResponse
	if err := client.Delete(cmd.Context(), "/chat/history", &resp); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}
	fmt.Fprintln(out, resp.Message)
	return nil
}
