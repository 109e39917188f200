package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/spf13/cobra"
)

const replPrompt = "você> "

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the assistant",
		Long: `Sends a message to the assistant and prints the reply.

Without a message argument, starts an interactive session that reads one
message per line from stdin until EOF or "sair".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			if len(args) == 1 {
				return sendMessage(cmd, api, args[0], outputJSON)
			}
			return runREPL(cmd, api, cmd.InOrStdin())
		},
	}

	return cmd
}

func sendMessage(cmd *cobra.Command, api *APIClient, message string, outputJSON bool) error {
	var resp handlers.ChatResponse
	if err := api.Post(cmd.Context(), "/chat", handlers.ChatRequest{Content: message}, &resp); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}
	fmt.Fprintln(out, resp.Response)
	return nil
}

func runREPL(cmd *cobra.Command, api *APIClient, in io.Reader) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, replPrompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.EqualFold(line, "sair"):
			return nil
		default:
			var resp handlers.ChatResponse
			if err := api.Post(cmd.Context(), "/chat", handlers.ChatRequest{Content: line}, &resp); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			} else {
				fmt.Fprintf(out, "assistente> %s\n", resp.Response)
			}
		}
		fmt.Fprint(out, replPrompt)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
