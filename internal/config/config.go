// Package config loads the YAML configuration file. Every field has a
// code default; a missing file is only an error when a path was given
// explicitly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

// Duration decodes YAML strings like "2s" or "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the file-level configuration.
type Config struct {
	// Entity tagging.
	ModelDir       string   `yaml:"model_dir"`
	ChunkSize      int      `yaml:"chunk_size"`
	TagTimeout     Duration `yaml:"tag_timeout"`
	SampleInterval int      `yaml:"memory_sample_interval"`
	MemoryBudgetMB int      `yaml:"memory_budget_mb"`
	MemoryFraction float64  `yaml:"memory_fraction"`

	// Retrieval.
	K1            float64 `yaml:"bm25_k1"`
	B             float64 `yaml:"bm25_b"`
	SnippetLength int     `yaml:"snippet_length"`

	// Batch input.
	TextColumn string `yaml:"text_column"`
	Workers    int    `yaml:"workers"`

	// Persistence and logging.
	ArchivePath string `yaml:"archive_path"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ChunkSize:      entities.DefaultChunkSize,
		SampleInterval: entities.DefaultSampleInterval,
		MemoryBudgetMB: 512,
		MemoryFraction: entities.DefaultMemoryFraction,
		TextColumn:     "review_text",
		Workers:        4,
		LogLevel:       "info",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Tagger maps the file fields onto the entity cascade configuration.
func (c Config) Tagger() entities.Config {
	return entities.Config{
		ModelDir:       c.ModelDir,
		ChunkSize:      c.ChunkSize,
		TagTimeout:     time.Duration(c.TagTimeout),
		SampleInterval: c.SampleInterval,
		MemoryBudget:   uint64(c.MemoryBudgetMB) << 20,
		MemoryFraction: c.MemoryFraction,
	}
}

// Pipeline maps the file fields onto the processor configuration.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Tagger:        c.Tagger(),
		K1:            c.K1,
		B:             c.B,
		SnippetLength: c.SnippetLength,
		Workers:       c.Workers,
	}
}
