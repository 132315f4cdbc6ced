package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"charstream/internal/scan"
	"charstream/internal/scancache"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var noCache bool
	var strategic bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Detect the encoding of every file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := scan.Options{
				Workers:      cfg.Scan.Workers,
				SampleBudget: cfg.Pipeline.SampleBudgetBytes,
				Strategic:    strategic || cfg.Pipeline.StrategicSampling,
				Logger:       logger,
			}
			if workers > 0 {
				opts.Workers = workers
			}

			if cfg.Scan.CacheEnabled && !noCache {
				cache, err := scancache.Open(cfg.Scan.CachePath)
				if err != nil {
					return fmt.Errorf("open scan cache: %w", err)
				}
				defer cache.Close()
				opts.Cache = cache
			}

			results, summary, err := scan.Run(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Results []scan.FileResult `json:"results"`
					Summary scan.Summary      `json:"summary"`
				}{Results: results, Summary: summary})
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					rows = append(rows, []string{r.Path, "error: " + r.Err.Error(), "", ""})
					continue
				}
				rows = append(rows, []string{
					r.Path,
					r.Result.Encoding,
					formatConfidence(r.Result.Confidence),
					yesNo(r.FromCache),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Encoding", "Confidence", "Cached"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))

			fmt.Fprintln(out, renderScanSummary(summary, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent detection workers (defaults to the configured count)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the detection cache for this scan")
	cmd.Flags().BoolVar(&strategic, "strategic", false, "Sample head, middle, and tail of large files")
	return cmd
}

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
)

func renderScanSummary(summary scan.Summary, colorize bool) string {
	line := fmt.Sprintf("%d files, %d cached, %d failed", summary.Files, summary.FromCache, summary.Failed)

	encodings := make([]string, 0, len(summary.ByEncoding))
	for encoding := range summary.ByEncoding {
		encodings = append(encodings, encoding)
	}
	sort.Strings(encodings)
	for _, encoding := range encodings {
		line += fmt.Sprintf("; %s: %d", encoding, summary.ByEncoding[encoding])
	}

	if colorize && summary.Failed > 0 {
		line = ansiYellow + line + ansiReset
	}
	return line
}
