package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/ipx/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ipx configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configured config.yaml",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			fmt.Printf("ok: dir=%q domains=%v max_age=%d cache.type=%s server.listen=%s\n",
				cfg.Dir, cfg.Domains, cfg.MaxAge, cfg.Cache.Type, cfg.Server.Listen)
			return nil
		},
	})
	return cmd
}
