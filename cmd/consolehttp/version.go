package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/consolehttp"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of consolehttp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "consolehttp version %s\n", strings.TrimSpace(consolehttp.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
