package app

import (
	"context"
	"strings"

	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/spf13/cobra"
)

// Cobra runs a cobra command tree as an Application.
//
// The factory is called once per run, so flag state never leaks between
// sessions. The tree's stdout and stderr are written to the session line by
// line, and stdin is empty.
type Cobra struct {
	factory func() *cobra.Command
}

// NewCobra creates a cobra Application.
func NewCobra(factory func() *cobra.Command) *Cobra {
	return &Cobra{factory: factory}
}

// Run implements Application.
func (c *Cobra) Run(ctx context.Context, in *input.Input, out *output.Output) error {
	root := c.factory()
	RegisterFlags(root)

	w := output.NewLineWriter(out, output.ModeNormal)
	root.SetOut(w)
	root.SetErr(w)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(in.Tokens())

	err := root.ExecuteContext(output.NewContext(ctx, out))
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

// RegisterFlags adds the session flags (--ansi, --no-ansi, --quiet/-q and
// --verbose/-v) to cmd as persistent flags, skipping any the tree already
// defines. The session resolves them before the command runs; they are
// declared so cobra accepts them.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	if !defined(cmd, "ansi") {
		flags.Bool("ansi", false, "Force styled output")
	}
	if !defined(cmd, "no-ansi") {
		flags.Bool("no-ansi", false, "Disable styled output")
	}
	if !defined(cmd, "quiet") {
		flags.BoolP("quiet", shorthand(cmd, "q"), false, "Do not output any message")
	}
	if !defined(cmd, "verbose") {
		flags.CountP("verbose", shorthand(cmd, "v"), "Increase verbosity: -v verbose, -vv very verbose, -vvv debug")
	}
}

func defined(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name) != nil || cmd.PersistentFlags().Lookup(name) != nil
}

// shorthand returns s, or "" when cmd already uses it.
func shorthand(cmd *cobra.Command, s string) string {
	if cmd.Flags().ShorthandLookup(s) != nil || cmd.PersistentFlags().ShorthandLookup(s) != nil {
		return ""
	}
	return s
}

// OutputOf returns the session Output of a running command, or nil when the
// command is not run by a session.
func OutputOf(cmd *cobra.Command) *output.Output {
	out, _ := output.FromContext(cmd.Context())
	return out
}
