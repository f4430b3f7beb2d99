package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/cache"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the type model cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var (
		configPath string
		cfg        pipeline.CacheConfig
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached type models",
		Long: `Clear all cached type models.

The backend comes from --config when given, else from --backend. Only keys
owned by umlconv are removed from a shared Redis database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				file, err := pipeline.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = file.Cache
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Backend == pipeline.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, err := c.newCache(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			if nc, ok := store.(*cache.NullCache); ok {
				return errors.New(errors.ErrCodeUnsupported, "cannot clear cache: %s", nc.Reason)
			}
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "%s cache cannot be cleared", cfg.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear %s cache", cfg.Backend)
			}

			printSuccess("Cleared %s cache", cfg.Backend)
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			} else {
				printDetail("Redis: %s", cfg.RedisAddr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file selecting the cache backend")
	cmd.Flags().StringVar(&cfg.Backend, "backend", pipeline.CacheFile, "cache backend: file, redis")
	cmd.Flags().StringVar(&cfg.RedisAddr, "redis-addr", pipeline.DefaultRedisAddr, "Redis address")
	cmd.Flags().IntVar(&cfg.RedisDB, "redis-db", 0, "Redis database")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
