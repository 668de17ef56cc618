package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/ipx/internal/ipxserver"
	ipxcache "github.com/r9s-ai/ipx/pkg/cache"
	"github.com/r9s-ai/ipx/pkg/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or evict the external cache backend",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List cached keys",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withManageable(func(m ipxcache.Manageable) error {
				keys, err := m.Keys(context.Background())
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Println(k)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <key>",
		Short: "Delete one cached key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withManageable(func(m ipxcache.Manageable) error {
				return m.Delete(context.Background(), args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withManageable(func(m ipxcache.Manageable) error {
				st, err := m.Stats(context.Background())
				if err != nil {
					return err
				}
				fmt.Printf("entries: %d\nbytes:   %d\n", st.Count, st.BytesUsed)
				return nil
			})
		},
	})
	return cmd
}

// withManageable loads the configured cache backend and invokes fn if it
// supports enumeration, returning a clear error otherwise (e.g. memcached,
// which has no listing primitive).
func withManageable(fn func(ipxcache.Manageable) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c, err := ipxserver.BuildCache(cfg)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.New("cache is disabled in this config")
	}
	m, ok := c.(ipxcache.Manageable)
	if !ok {
		return fmt.Errorf("cache.type %q does not support listing/eviction", cfg.Cache.Type)
	}
	return fn(m)
}
