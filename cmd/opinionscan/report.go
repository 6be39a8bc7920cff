package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <reviews.csv>",
	Short: "Summarize a processed batch",
	Long: `Process a review CSV and write the batch-level analysis report:
totals, top products and brands, event-type and sentiment distributions,
and the tagger and index statistics snapshots.

Examples:
  opinionscan report reviews.csv
  opinionscan report reviews.csv --out report.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")

		proc, _, err := loadBatch(args[0])
		if err != nil {
			return err
		}

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(proc.GenerateReport())
	},
}

func init() {
	reportCmd.Flags().String("out", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
