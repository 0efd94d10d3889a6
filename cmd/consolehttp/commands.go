package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the allow-listed commands of the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStack(cmd)
		if err != nil {
			return err
		}
		if s.runner == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No commands configured; serving the built-in demo.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCOMMAND\tPTY\tDESCRIPTION")
		for _, c := range s.runner.Commands() {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", c.Name, c.Command, c.PTY, c.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
