package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracemetro/tracemetro/pkg/cache"
)

// newCacheCmd creates the cache command group for managing the layout cache.
func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			fmt.Println(cfg.Cache.Dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := cache.NewFileCache(cfg.Cache.Dir)
			if err != nil {
				return err
			}
			if err := c.(*cache.FileCache).Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("cache cleared", "dir", cfg.Cache.Dir)
			return nil
		},
	})

	return cmd
}

// openCache builds the layout cache selected by the configuration: null
// when disabled, Redis when an address is configured, file otherwise.
func openCache(ctx context.Context, cfg Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr})
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}
