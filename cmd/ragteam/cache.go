package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/config"
	"github.com/jonwraymond/ragteam/observe"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:          "clear",
		Short:        "Remove every cached search result",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			_, err = clearCache(cmd.Context(), openCache(cfg), cmd.OutOrStdout())
			return err
		},
	})
	return cmd
}

// clearCache empties c and prints the number of removed entries. The count
// is printed even when some entries could not be removed; their errors are
// returned.
func clearCache(ctx context.Context, c cache.Cache, w io.Writer) (int, error) {
	n, err := c.Clear(ctx)
	fmt.Fprintf(w, "Cache cleared: %d files removed\n", n)
	return n, err
}

// cacheExists reports whether the configured cache has anything to clear.
func cacheExists(cfg *config.Config) bool {
	if cfg.Cache.Backend != config.BackendFile {
		return true
	}
	_, err := os.Stat(cfg.Cache.Dir)
	return !os.IsNotExist(err)
}

// clearBeforeRun clears c for --clear-cache. Removal failures are logged and
// the run continues.
func clearBeforeRun(ctx context.Context, c cache.Cache, w io.Writer, log observe.Logger) {
	if _, err := clearCache(ctx, c, w); err != nil {
		log.Warn(ctx, "cache clear incomplete", observe.F("error", err.Error()))
	}
}
