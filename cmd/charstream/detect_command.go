package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"charstream/internal/detect"
	"charstream/internal/pipeline"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var strategic bool

	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Report the detected encoding of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := []pipeline.Option{
				pipeline.WithSampleBudget(cfg.Pipeline.SampleBudgetBytes),
				pipeline.WithLogger(logger),
			}
			if strategic || cfg.Pipeline.StrategicSampling {
				opts = append(opts, pipeline.WithStrategicSampling())
			}

			type fileDetection struct {
				Path string `json:"path"`
				detect.Result
			}

			detections := make([]fileDetection, 0, len(args))
			for _, path := range args {
				result, err := pipeline.Detect(path, opts...)
				if err != nil {
					return fmt.Errorf("detect %s: %w", path, err)
				}
				detections = append(detections, fileDetection{Path: path, Result: result})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, detections)
			}

			rows := make([][]string, 0, len(detections))
			for _, d := range detections {
				rows = append(rows, []string{
					d.Path,
					d.Encoding,
					formatConfidence(d.Confidence),
					yesNo(d.BOMPresent),
					string(d.Newlines),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Encoding", "Confidence", "BOM", "Newlines"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strategic, "strategic", false, "Sample head, middle, and tail of large files")
	return cmd
}

func formatConfidence(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
