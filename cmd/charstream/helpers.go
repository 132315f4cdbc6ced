package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"charstream/internal/config"
	"charstream/internal/pipeline"
)

func buildPipelineOptions(cfg *config.Config, logger *slog.Logger, from string, chunkSize int, strategic bool) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithSampleBudget(cfg.Pipeline.SampleBudgetBytes),
		pipeline.WithLogger(logger),
	}
	if chunkSize > 0 {
		opts = append(opts, pipeline.WithChunkSize(chunkSize))
	} else if cfg.Pipeline.ChunkSizeBytes > 0 {
		opts = append(opts, pipeline.WithChunkSize(cfg.Pipeline.ChunkSizeBytes))
	}
	if from != "" {
		opts = append(opts, pipeline.WithSourceEncoding(from))
	}
	if strategic || cfg.Pipeline.StrategicSampling {
		opts = append(opts, pipeline.WithStrategicSampling())
	}
	return opts
}

func reportStats(cmd *cobra.Command, ctx *commandContext, path string, stats pipeline.Stats) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, struct {
			Path  string         `json:"path"`
			Stats pipeline.Stats `json:"stats"`
		}{Path: path, Stats: stats})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s -> %s", path, stats.SourceEncoding, stats.TargetEncoding)
	if stats.Newlines != "" {
		fmt.Fprintf(out, " (%s)", stats.Newlines)
	}
	fmt.Fprintf(out, ", %d bytes in, %d bytes out", stats.BytesIn, stats.BytesOut)
	if replaced := stats.DecodeReplacements + stats.EncodeReplacements; replaced > 0 {
		fmt.Fprintf(out, ", %d replacements", replaced)
	}
	fmt.Fprintln(out)
	return nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
