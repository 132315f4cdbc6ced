package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charstream/internal/scancache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the detection cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))

	return cacheCmd
}

func (c *commandContext) openCache() (*scancache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := scancache.Open(cfg.Scan.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open scan cache: %w", err)
	}
	return store, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show detection cache location and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Path    string `json:"path"`
					Entries int64  `json:"entries"`
				}{Path: store.Path(), Entries: count})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache path: %s\n", store.Path())
			fmt.Fprintf(out, "Entries: %d\n", count)
			return nil
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached detection result",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Removed int64 `json:"removed"`
				}{Removed: removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", removed)
			return nil
		},
	}
}
