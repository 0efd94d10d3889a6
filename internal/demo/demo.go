// Package demo is a small console application showing what a session renders:
// style tags, raw escape codes, erase-line progress, glamour documents and
// failures.
package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// NewCommand returns a fresh demo command tree.
func NewCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "demo",
		Short:        "Demo console application",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(
		newGreetCmd(),
		newColorsCmd(),
		newProgressCmd(),
		newFailCmd(),
		newDocCmd(),
		newBannerCmd(),
	)
	return root
}

func newGreetCmd() *cobra.Command {
	var yell bool
	cmd := &cobra.Command{
		Use:   "greet [name]",
		Short: "Say hello",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "world"
			if len(args) == 1 {
				name = args[0]
			}
			if yell {
				name = strings.ToUpper(name) + "!"
			}
			cmd.Printf("Hello <info>%s</info>\n", formatter.Escape(name))
			if out := app.OutputOf(cmd); out != nil && out.IsVerbose() {
				cmd.Println("<comment>greeted in verbose mode</comment>")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yell, "yell", false, "Greet loudly")
	return cmd
}

func newColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "Print the basic, 256 and true color palettes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for i, name := range theme.Names {
				fg := tagColor(i)
				fmt.Fprintf(w, "<fg=%s>%-9s</> <fg=black;bg=%s> %-9s </> <fg=%s;options=bold>bold</> <fg=%s;options=underscore>underline</>\n",
					fg, name, fg, name, fg, fg)
			}

			var b strings.Builder
			for i := 16; i < 232; i++ {
				fmt.Fprintf(&b, "\x1b[48;5;%dm  ", i)
				if (i-15)%36 == 0 {
					b.WriteString("\x1b[0m\n")
				}
			}
			fmt.Fprint(w, b.String())

			p := termenv.TrueColor
			b.Reset()
			for i := 0; i < 64; i++ {
				b.WriteString(termenv.String(" ").Background(p.Color(fmt.Sprintf("#%02x%02x%02x", 255-i*4, i*4, 128))).String())
			}
			fmt.Fprintln(w, b.String())

			if out := app.OutputOf(cmd); out != nil && out.IsVerbose() {
				fmt.Fprintln(w, "\x1b[1mbold\x1b[0m \x1b[2mfaint\x1b[0m \x1b[3mitalic\x1b[0m \x1b[9mcrossed\x1b[0m \x1b[7mreverse\x1b[0m")
			}
			return nil
		},
	}
}

// tagColor names basic color i the way style tags spell it.
func tagColor(i int) string {
	if i < 8 {
		return theme.Names[i]
	}
	return "bright-" + theme.Names[i-8]
}

func newProgressCmd() *cobra.Command {
	var steps int
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Redraw a progress bar with erase-line sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "<comment>Working...</comment>")
			for i := 1; i <= steps; i++ {
				if err := sleep(cmd.Context(), delay); err != nil {
					return err
				}
				bar := strings.Repeat("#", i) + strings.Repeat(".", steps-i)
				fmt.Fprintf(w, "\x1b[2K<info>[%s]</info> %3d%%\n", bar, i*100/steps)
			}
			fmt.Fprintln(w, "<info>Done.</info>")
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 10, "Number of steps")
	cmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "Delay between steps")
	return cmd
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ExitError is returned by the fail command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("failed with status %d", e.Code) }

func (e *ExitError) ExitCode() int { return e.Code }

func newFailCmd() *cobra.Command {
	var code int
	cmd := &cobra.Command{
		Use:   "fail",
		Short: "Print a line, then fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("<comment>About to fail...</comment>")
			return &ExitError{Code: code}
		},
	}
	cmd.Flags().IntVar(&code, "code", 1, "Exit status")
	return cmd
}
