package demo

import (
	"fmt"

	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const guide = `# consolehttp

Console applications, **streamed** to the browser.

## Try

- ` + "`/run/greet/gopher`" + ` says hello
- ` + "`/run/colors?-v`" + ` prints every palette
- ` + "`/run/progress?--steps=20`" + ` redraws a bar with *erase-line*
- ` + "`/run/fail?--code=3`" + ` fails; see the X-Exit-Code trailer

Append ` + "`?--no-ansi`" + ` for plain text.
`

// NewRenderer returns a function rendering markdown to escape-coded text.
func NewRenderer(width int) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.TrueColor),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

func newDocCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Render the guide with glamour",
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := NewRenderer(width)
			if err != nil {
				return fmt.Errorf("renderer: %w", err)
			}
			out, err := render(guide)
			if err != nil {
				return fmt.Errorf("render guide: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Escape(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}
