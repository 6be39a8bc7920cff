// opinionscan turns free-text product reviews into structured opinion
// records and serves ranked retrieval over the processed batch.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/opinionkit/opinionscan/internal/config"
	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

var (
	cfgPath string
	cfg     config.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "opinionscan",
	Short: "Extract structured opinions from product reviews",
	Long: `opinionscan runs an extraction pipeline over product review text:
pattern matching (prices, dates, model codes, ratings), entity tagging
with a statistical-to-gazetteer fallback cascade, relation and event
extraction, and BM25 retrieval over the processed batch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = log.InfoLevel
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: true,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
}

// loadBatch reads the CSV named by path and runs the full pipeline.
func loadBatch(path string) (*pipeline.Processor, []pipeline.ProcessedReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reviews, err := pipeline.LoadCSV(f, cfg.TextColumn)
	if err != nil {
		return nil, nil, err
	}

	pcfg := cfg.Pipeline()
	pcfg.Logger = logger
	proc, err := pipeline.New(pcfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("processing batch", "file", path, "reviews", len(reviews))
	batch := proc.ProcessAll(reviews)
	return proc, batch, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
