package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"charstream/internal/charset"
)

func newEncodingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "encodings",
		Short:       "List the encodings charstream can read and write",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			names := charset.Names()
			sort.Strings(names)
			if ctx.jsonOutput() {
				return writeJSON(cmd, names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
