package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charstream/internal/pipeline"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var toFlag string
	var fromFlag string
	var newlinesFlag string
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "normalize <file>...",
		Short: "Rewrite files in place to a target encoding and newline style",
		Long: `Normalize rewrites each file in place, converting it to the target
encoding and optionally unifying its line terminators. The rewrite is
atomic: content is staged next to the original and renamed over it only
on success. A sibling lock file guards against concurrent rewrites of
the same path.

Without --newlines each file keeps its detected newline style.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			target := toFlag
			if target == "" {
				target = cfg.Pipeline.TargetEncoding
			}
			style := newlinesFlag
			if style == "" {
				style = cfg.Pipeline.Newlines
			}

			opts := buildPipelineOptions(cfg, logger, fromFlag, chunkSize, false)

			type fileOutcome struct {
				Path  string         `json:"path"`
				Stats pipeline.Stats `json:"stats"`
			}
			outcomes := make([]fileOutcome, 0, len(args))

			for _, path := range args {
				stats, err := pipeline.Normalize(cmd.Context(), path, target, style, opts...)
				if err != nil {
					return fmt.Errorf("normalize %s: %w", path, err)
				}
				outcomes = append(outcomes, fileOutcome{Path: path, Stats: stats})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, outcomes)
			}
			for _, outcome := range outcomes {
				if err := reportStats(cmd, ctx, outcome.Path, outcome.Stats); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "Target encoding (defaults to the configured target)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Source encoding (skips detection)")
	cmd.Flags().StringVar(&newlinesFlag, "newlines", "", "Newline style to enforce: LF, CRLF, or CR")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Streaming chunk size in bytes")
	return cmd
}
