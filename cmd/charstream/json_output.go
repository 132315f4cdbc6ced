package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON renders v to the command's stdout as indented JSON, for the
// --json output mode every subcommand shares.
func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
