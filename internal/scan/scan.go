package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"charstream/internal/detect"
	"charstream/internal/logging"
	"charstream/internal/pipeline"
	"charstream/internal/scancache"
	"charstream/internal/stream"
)

// Options controls a directory scan.
type Options struct {
	// Workers bounds how many files are detected concurrently. Values
	// below one fall back to a single worker.
	Workers int
	// Cache, when non-nil, serves unchanged files without re-reading them
	// and records fresh detections.
	Cache *scancache.Store
	// SampleBudget and Strategic are forwarded to detection.
	SampleBudget int
	Strategic    bool
	Logger       *slog.Logger
}

// FileResult is the detection outcome for one file.
type FileResult struct {
	Path      string        `json:"path"`
	Size      int64         `json:"size"`
	Result    detect.Result `json:"result"`
	FromCache bool          `json:"from_cache"`
	Err       error         `json:"-"`
}

// Summary aggregates a completed scan.
type Summary struct {
	Files      int            `json:"files"`
	FromCache  int            `json:"from_cache"`
	Failed     int            `json:"failed"`
	ByEncoding map[string]int `json:"by_encoding"`
}

// Run walks root and detects every regular file beneath it. Results are
// returned sorted by path. Per-file failures are reported in the result
// slice and summary; only walk-level errors abort the scan.
func Run(ctx context.Context, root string, opts Options) ([]FileResult, Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "scan")

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	paths := make(chan string)
	results := make(chan FileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				results <- detectOne(ctx, path, opts, logger)
			}
		}()
	}

	walkErr := make(chan error, 1)
	go func() {
		defer close(paths)
		walkErr <- filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []FileResult
	summary := Summary{ByEncoding: make(map[string]int)}
	for result := range results {
		collected = append(collected, result)
		summary.Files++
		if result.FromCache {
			summary.FromCache++
		}
		if result.Err != nil {
			summary.Failed++
			continue
		}
		summary.ByEncoding[result.Result.Encoding]++
	}

	if err := <-walkErr; err != nil {
		return collected, summary, err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].Path < collected[j].Path })

	logger.Info("scan complete",
		logging.String("root", root),
		logging.Int("files", summary.Files),
		logging.Int("from_cache", summary.FromCache),
		logging.Int("failed", summary.Failed),
	)
	return collected, summary, nil
}

func detectOne(ctx context.Context, path string, opts Options, logger *slog.Logger) FileResult {
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	size := info.Size()
	mtime := info.ModTime().UnixNano()

	if opts.Cache != nil {
		entry, ok, err := opts.Cache.Lookup(ctx, path, size, mtime)
		if err != nil {
			logger.Warn("cache lookup failed", logging.String("path", path), logging.Error(err))
		} else if ok {
			style, styleErr := stream.ParseStyle(entry.Newlines)
			if styleErr != nil {
				style = stream.StyleLF
			}
			return FileResult{
				Path: path,
				Size: size,
				Result: detect.Result{
					Encoding:   entry.Encoding,
					Confidence: entry.Confidence,
					BOMPresent: entry.BOMPresent,
					Newlines:   style,
				},
				FromCache: true,
			}
		}
	}

	detectOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if opts.SampleBudget > 0 {
		detectOpts = append(detectOpts, pipeline.WithSampleBudget(opts.SampleBudget))
	}
	if opts.Strategic {
		detectOpts = append(detectOpts, pipeline.WithStrategicSampling())
	}

	result, err := pipeline.Detect(path, detectOpts...)
	if err != nil {
		return FileResult{Path: path, Size: size, Err: err}
	}

	if opts.Cache != nil {
		recordErr := opts.Cache.Record(ctx, scancache.Entry{
			Path:       path,
			Size:       size,
			MTimeNanos: mtime,
			Encoding:   result.Encoding,
			Confidence: result.Confidence,
			BOMPresent: result.BOMPresent,
			Newlines:   string(result.Newlines),
		})
		if recordErr != nil {
			logger.Warn("cache record failed", logging.String("path", path), logging.Error(recordErr))
		}
	}

	return FileResult{Path: path, Size: size, Result: result}
}
