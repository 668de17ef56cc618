// Command ipxctl is the operator CLI for an ipx deployment: inspecting
// and evicting cache entries, validating a config file, and opening a
// live terminal dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "ipxctl",
		Short: "Operator CLI for the ipx image server",
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config.yaml")

	root.AddCommand(newCacheCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newDashboardCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
