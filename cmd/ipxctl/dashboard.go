package main

import (
	"github.com/spf13/cobra"

	"github.com/r9s-ai/ipx/cmd/ipxctl/tui"
	"github.com/r9s-ai/ipx/pkg/config"
)

func newDashboardCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open a live terminal dashboard over the admin websocket",
		RunE: func(_ *cobra.Command, _ []string) error {
			target := addr
			if target == "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				target = cfg.Server.AdminListen
			}
			return tui.Run(target)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "admin host:port, defaults to server.admin_listen from config")
	return cmd
}
