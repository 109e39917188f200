package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/spf13/cobra"
)

// SearchCmd creates the product search command.
func SearchCmd() *cobra.Command {
	var (
		category string
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Long:  "Searches the product catalog by similarity, optionally filtered by category and price range.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			req := handlers.ProductSearchRequest{Query: args[0]}
			filters := domain.ProductFilters{Category: category}
			if cmd.Flags().Changed("min-price") {
				filters.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filters.MaxPrice = &maxPrice
			}
			if !filters.IsZero() {
				req.Filters = &filters
			}

			return runSearch(cmd, api, req, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Maximum price")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategory)

	return cmd
}

func completeCategory(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return domain.Categories(), cobra.ShellCompDirectiveNoFileComp
}

func runSearch(cmd *cobra.Command, api *APIClient, req handlers.ProductSearchRequest, outputJSON bool) error {
	var resp handlers.ProductSearchResponse
	if err := api.Post(cmd.Context(), "/search/products", req, &resp); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(resp.Products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d products:\n\n", len(resp.Products))
	for i, p := range resp.Products {
		availability := "em estoque"
		if !p.Available {
			availability = "indisponível"
		}
		fmt.Fprintf(out, "%d. %s (R$ %.2f, %s)\n", i+1, p.Name, p.Price, availability)
		if p.Description != "" {
			fmt.Fprintf(out, "   %s\n", truncate(p.Description, 100))
		}
		fmt.Fprintf(out, "   Categoria: %s | ID: %s\n", p.Category, p.ID)
		if i < len(resp.Products)-1 {
			fmt.Fprintln(out, strings.Repeat("-", 40))
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
