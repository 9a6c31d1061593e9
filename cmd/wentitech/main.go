package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wentitech/wentitech/internal/build"
)

func main() {
	var configPath string
	rootCmd := &cobra.Command{
		Use:     "wentitech",
		Short:   "WENTITECH company website",
		Long:    "Serves the WENTITECH brochure site with live theme and contact form interactions.",
		Version: build.Summary(),
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default ./wentitech.yaml)")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newMigrateCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
