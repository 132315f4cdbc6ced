package config

import (
	"errors"
	"fmt"

	"charstream/internal/charset"
	"charstream/internal/stream"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if c.Pipeline.SampleBudgetBytes <= 0 {
		return errors.New("pipeline.sample_budget_bytes must be positive")
	}
	if c.Pipeline.ChunkSizeBytes < 16 {
		return errors.New("pipeline.chunk_size_bytes must be at least 16")
	}
	if _, err := charset.Resolve(c.Pipeline.TargetEncoding); err != nil {
		return fmt.Errorf("pipeline.target_encoding: %w", err)
	}
	if c.Pipeline.Newlines != "" {
		if _, err := stream.ParseStyle(c.Pipeline.Newlines); err != nil {
			return fmt.Errorf("pipeline.newlines: %w", err)
		}
	}
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
