package config

const (
	defaultSampleBudgetBytes = 1 << 20 // 1 MiB
	defaultChunkSizeBytes    = 8 << 10 // 8 KiB
	defaultTargetEncoding    = "utf-8"
	defaultScanCachePath     = "~/.cache/charstream/scancache.db"
	defaultScanWorkers       = 4
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pipeline: Pipeline{
			SampleBudgetBytes: defaultSampleBudgetBytes,
			ChunkSizeBytes:    defaultChunkSizeBytes,
			TargetEncoding:    defaultTargetEncoding,
		},
		Scan: Scan{
			CacheEnabled: true,
			CachePath:    defaultScanCachePath,
			Workers:      defaultScanWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
