package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Pipeline contains streaming conversion settings.
type Pipeline struct {
	// SampleBudgetBytes bounds how much of a file detection may read.
	SampleBudgetBytes int `toml:"sample_budget_bytes"`
	// ChunkSizeBytes is the streaming read granularity.
	ChunkSizeBytes int `toml:"chunk_size_bytes"`
	// TargetEncoding is the default conversion target.
	TargetEncoding string `toml:"target_encoding"`
	// Newlines is the default normalization style (LF, CRLF, CR). Empty
	// keeps each file's detected style.
	Newlines string `toml:"newlines"`
	// StrategicSampling samples head, middle, and tail of large files
	// instead of only the prefix.
	StrategicSampling bool `toml:"strategic_sampling"`
}

// Scan contains directory scan settings.
type Scan struct {
	// CacheEnabled persists detection results between runs.
	CacheEnabled bool `toml:"cache_enabled"`
	// CachePath locates the detection cache database.
	CachePath string `toml:"cache_path"`
	// Workers is the number of files detected concurrently.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for charstream.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Scan     Scan     `toml:"scan"`
	Logging  Logging  `toml:"logging"`
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/charstream/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error: defaults apply. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("charstream.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
