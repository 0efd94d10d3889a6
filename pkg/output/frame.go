package output

import (
	"fmt"

	"github.com/aretw0/consolehttp/pkg/theme"
)

// BackgroundColor is the theme color of the document background when decorated.
const BackgroundColor = "black"

const (
	openTemplate = `<!DOCTYPE html>
<html>
<body style="margin: 0;">
<style>
%s
</style>
<pre class="%s" style="font-size: 1.3em; padding: 0.5vh 0.5%%; margin: 0; min-height: 99vh; display: inline-block; min-width: 99%%;">`

	closeFragment = `</pre></body></html>`
)

// Frame produces the markup around a session's content lines.
type Frame struct {
	Theme     *theme.Theme
	Decorated bool
}

// Open returns the document preamble. When decorated it embeds the theme
// stylesheet and the dark background class; otherwise both are empty.
func (f Frame) Open() string {
	css, class := "", ""
	if f.Decorated {
		th := f.Theme
		if th == nil {
			th = theme.Default()
		}
		css = th.CSS()
		class = theme.BackgroundClass(BackgroundColor)
	}
	return fmt.Sprintf(openTemplate, css, class)
}

// Close returns the closing tags matching Open.
func (f Frame) Close() string {
	return closeFragment
}
