package main

import (
	"os"

	"github.com/aretw0/consolehttp"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- [tokens...]",
	Short: "Render one invocation to standard output",
	Long: `Runs the configured application once and writes the document to standard output.
Tokens after -- are passed to the application, as a /run URL would.`,
	Example: `  consolehttp run -- greet gopher --ansi
  consolehttp run --html -- colors > colors.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStack(cmd)
		if err != nil {
			return err
		}

		tokens := append(append([]string{}, s.cfg.DefaultOptions...), args...)
		in := input.New(tokens...)

		var sink output.Sink
		if html, _ := cmd.Flags().GetBool("html"); html {
			sink = output.NewWriterSink(os.Stdout, true)
		} else if sink, err = consolehttp.DefaultSink(); err != nil {
			return err
		}
		return s.adapter.RunApplication(cmd.Context(), s.app, in, sink)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("html", false, "Render styled HTML even when standard output is not a terminal")
}
