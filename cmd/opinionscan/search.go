package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search <reviews.csv> <query>",
	Short: "Rank reviews against a query",
	Long: `Process a review CSV and rank it against a free-text query with BM25.
Results are written as JSON: id, snippet, score, products, brands,
sentiment.

--sentiment and --product switch the query to lexical expansion: the
short label or product name becomes a longer synthetic query run through
the same ranking path.

Examples:
  opinionscan search reviews.csv "battery drains fast"
  opinionscan search reviews.csv negative --sentiment
  opinionscan search reviews.csv "iPhone 14 Pro" --product --top-k 3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top-k")
		bySentiment, _ := cmd.Flags().GetBool("sentiment")
		byProduct, _ := cmd.Flags().GetBool("product")

		proc, _, err := loadBatch(args[0])
		if err != nil {
			return err
		}

		query := args[1]
		var hits []pipeline.Hit
		switch {
		case bySentiment:
			hits = proc.SearchBySentiment(query, topK)
		case byProduct:
			hits = proc.SearchByProduct(query, topK)
		default:
			hits = proc.Search(query, topK)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	},
}

func init() {
	searchCmd.Flags().Int("top-k", 10, "maximum number of results")
	searchCmd.Flags().Bool("sentiment", false, "treat the query as a sentiment label")
	searchCmd.Flags().Bool("product", false, "treat the query as a product name")
	rootCmd.AddCommand(searchCmd)
}
