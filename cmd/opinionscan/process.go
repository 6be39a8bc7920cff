package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opinionkit/opinionscan/internal/store"
	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process <reviews.csv>",
	Short: "Run the extraction pipeline over a review CSV",
	Long: `Process a CSV of product reviews through every extractor and write
the structured results as JSON.

The text column defaults to "review_text" (config: text_column). A column
named "id" supplies review IDs when present.

Examples:
  opinionscan process reviews.csv
  opinionscan process reviews.csv --out results.json
  opinionscan process reviews.csv --archive batches.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		archivePath, _ := cmd.Flags().GetString("archive")
		if archivePath == "" {
			archivePath = cfg.ArchivePath
		}

		proc, batch, err := loadBatch(args[0])
		if err != nil {
			return err
		}

		if archivePath != "" {
			archive, err := store.NewArchiveWithDSN(archivePath)
			if err != nil {
				return err
			}
			defer archive.Close()

			batchID, err := archive.SaveBatch(batch, proc.TaggerStats().ModelUsed)
			if err != nil {
				return err
			}
			logger.Info("batch archived", "path", archivePath, "batch", batchID)
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
		return pipeline.ExportJSON(out, batch)
	},
}

func init() {
	processCmd.Flags().String("out", "", "write results to a file instead of stdout")
	processCmd.Flags().String("archive", "", "also archive the batch to this SQLite file")
	rootCmd.AddCommand(processCmd)
}
