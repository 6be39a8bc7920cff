package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// tuningCase pairs a query with the indices of its relevant reviews.
type tuningCase struct {
	Query    string `yaml:"query"`
	Relevant []int  `yaml:"relevant"`
}

var tuneCmd = &cobra.Command{
	Use:   "tune <reviews.csv> <cases.yaml>",
	Short: "Grid-search BM25 parameters against labeled queries",
	Long: `Process a review CSV, then grid-search the k1 and b ranking parameters
against a YAML file of labeled cases and print the best pair.

The cases file is a list of query/relevant pairs, where relevant holds
zero-based indices into the CSV's row order:

  - query: battery life
    relevant: [0, 4]
  - query: arrived broken
    relevant: [2]

This is offline calibration; it does not persist the result. Pass the
winning values back through the config file (bm25_k1, bm25_b).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}
		var cases []tuningCase
		if err := yaml.Unmarshal(data, &cases); err != nil {
			return fmt.Errorf("parsing %s: %w", args[1], err)
		}

		queries := make([]string, len(cases))
		relevant := make([][]int, len(cases))
		for i, c := range cases {
			queries[i] = c.Query
			relevant[i] = c.Relevant
		}

		proc, _, err := loadBatch(args[0])
		if err != nil {
			return err
		}

		k1, b, err := proc.Tune(queries, relevant)
		if err != nil {
			return err
		}

		logger.Info("tuning complete", "cases", len(cases))
		fmt.Printf("bm25_k1: %g\nbm25_b: %g\n", k1, b)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuneCmd)
}
