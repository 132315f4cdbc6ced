package config

import (
	"fmt"
	"strings"

	"charstream/internal/charset"
)

func (c *Config) normalize() error {
	c.Pipeline.TargetEncoding = charset.Canonical(c.Pipeline.TargetEncoding)
	if c.Pipeline.TargetEncoding == "" {
		c.Pipeline.TargetEncoding = defaultTargetEncoding
	}
	c.Pipeline.Newlines = strings.ToUpper(strings.TrimSpace(c.Pipeline.Newlines))

	if strings.TrimSpace(c.Scan.CachePath) == "" {
		c.Scan.CachePath = defaultScanCachePath
	}
	var err error
	if c.Scan.CachePath, err = expandPath(c.Scan.CachePath); err != nil {
		return fmt.Errorf("scan.cache_path: %w", err)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Dir != "" {
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}
