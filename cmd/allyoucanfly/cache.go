package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/config"
)

// NewCacheCmd creates the cache maintenance command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the local leg cache",
		Long: `Cache inspects and maintains the durable leg cache.

Examples:
  allyoucanfly cache stats
  allyoucanfly cache sweep
  allyoucanfly cache clear --backend badger`,
	}

	cmd.PersistentFlags().String("backend", "", "Cache backend: sqlite, badger or memory")
	cmd.PersistentFlags().String("data-dir", "", "Directory holding the cache database")

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached entries",
		Args:  cobra.NoArgs,
		RunE:  runCacheStats,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Remove expired entries",
		Args:  cobra.NoArgs,
		RunE:  runCacheSweep,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all entries",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	})

	return cmd
}

// cacheConfig loads the configuration with the cache flags applied.
func cacheConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.CacheBackend = backend
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	cfg, err := cacheConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	legs, store, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := legs.Len(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count cache entries: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backend:  %s\n", cfg.CacheBackend)
	fmt.Fprintf(cmd.OutOrStdout(), "data dir: %s\n", cfg.DataDir)
	fmt.Fprintf(cmd.OutOrStdout(), "ttl:      %s\n", cfg.CacheTTL)
	fmt.Fprintf(cmd.OutOrStdout(), "entries:  %d\n", n)
	return nil
}

func runCacheSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := cacheConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	legs, store, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	removed := legs.Sweep(cmd.Context(), time.Now())
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	cfg, err := cacheConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	legs, store, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := legs.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}
