package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charstream/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var toFlag string
	var fromFlag string
	var chunkSize int
	var strategic bool

	cmd := &cobra.Command{
		Use:   "convert <src> [dst]",
		Short: "Re-encode a file to a target encoding",
		Long: `Convert decodes src using its detected encoding (or --from) and writes
the content re-encoded to the target encoding. With a dst argument the
result is committed atomically: it is staged in a temporary sibling file
and renamed into place only on success. Without dst the decoded text is
printed to stdout as UTF-8.`,
		Args: cobra.RangeArgs(1, 2),
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

			opts := buildPipelineOptions(cfg, logger, fromFlag, chunkSize, strategic)

			src := args[0]
			if len(args) == 2 {
				stats, err := pipeline.ConvertFile(cmd.Context(), src, args[1], target, opts...)
				if err != nil {
					return err
				}
				return reportStats(cmd, ctx, src, stats)
			}

			text, stats, err := pipeline.Convert(cmd.Context(), src, target, opts...)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Path  string         `json:"path"`
					Text  string         `json:"text"`
					Stats pipeline.Stats `json:"stats"`
				}{Path: src, Text: text, Stats: stats})
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "Target encoding (defaults to the configured target)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Source encoding (skips detection)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Streaming chunk size in bytes")
	cmd.Flags().BoolVar(&strategic, "strategic", false, "Sample head, middle, and tail of large files")
	return cmd
}
