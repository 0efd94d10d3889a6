package transcode

import (
	"html"
	"log/slog"
	"strings"

	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/pkg/theme"
	ansi "github.com/leaanthony/go-ansi-parser"
)

// Converter maps SGR escape-coded text to HTML markup using a theme.
// Implementations must pass non-SGR text through HTML-escaped, close every span
// they open, and drop unknown or malformed codes instead of failing.
type Converter interface {
	Convert(text string, th *theme.Theme) (string, error)
}

// xterm names and values of the sixteen basic colors, as reported by the parser.
var (
	basicNames = [16]string{
		"Black", "Maroon", "Green", "Olive", "Navy", "Purple", "Teal", "Silver",
		"Grey", "Red", "Lime", "Yellow", "Blue", "Fuchsia", "Aqua", "White",
	}
	basicHex = [16]string{
		"#000000", "#800000", "#008000", "#808000", "#000080", "#800080", "#008080", "#c0c0c0",
		"#808080", "#ff0000", "#00ff00", "#ffff00", "#0000ff", "#ff00ff", "#00ffff", "#ffffff",
	}
)

const (
	defaultForeground = 7 // white
	defaultBackground = 0 // black
)

// HTMLConverter is the default Converter. It is stateless and safe for
// concurrent use.
type HTMLConverter struct {
	classes bool
	logger  *slog.Logger
}

// ConverterOption configures an HTMLConverter.
type ConverterOption func(*HTMLConverter)

// WithClasses renders basic colors and text styles as theme classes instead of
// inline styles. The document must embed the theme stylesheet.
func WithClasses() ConverterOption {
	return func(c *HTMLConverter) {
		c.classes = true
	}
}

// WithLogger sets the logger used to report discarded input.
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *HTMLConverter) {
		c.logger = logger
	}
}

// NewHTMLConverter creates a converter producing inline-styled spans.
func NewHTMLConverter(opts ...ConverterOption) *HTMLConverter {
	c := &HTMLConverter{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert implements Converter.
func (c *HTMLConverter) Convert(text string, th *theme.Theme) (string, error) {
	if !strings.ContainsRune(text, '\x1b') {
		return html.EscapeString(text), nil
	}

	segments, err := ansi.Parse(normalizeSGR(stripNonSGR(text)))
	if err != nil {
		// Keep the text, lose the styling.
		c.logger.Debug("transcode: discarding unparsable escape codes", "error", err, "size", len(text))
		return html.EscapeString(StripEscapes(text)), nil
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, seg := range segments {
		if seg.Label == "" {
			continue
		}
		label := html.EscapeString(StripEscapes(seg.Label))
		attr := c.attributes(seg, th)
		if attr == "" {
			b.WriteString(label)
			continue
		}
		b.WriteString("<span ")
		b.WriteString(attr)
		b.WriteString(">")
		b.WriteString(label)
		b.WriteString("</span>")
	}
	return b.String(), nil
}

// attributes builds the class and/or style attributes of a segment.
// It returns "" for unstyled text.
func (c *HTMLConverter) attributes(seg *ansi.StyledText, th *theme.Theme) string {
	fg, bg := seg.FgCol, seg.BgCol
	if seg.Inversed() {
		fg, bg = bg, fg
		if fg == nil {
			fg = basicCol(defaultBackground)
		}
		if bg == nil {
			bg = basicCol(defaultForeground)
		}
	}

	var classes, styles []string
	addColor := func(col *ansi.Col, kind string) {
		if col == nil {
			return
		}
		name, value := resolve(col, th)
		switch {
		case c.classes && name != "":
			if kind == "color" {
				classes = append(classes, theme.ForegroundClass(name))
			} else {
				classes = append(classes, theme.BackgroundClass(name))
			}
		case value != "":
			styles = append(styles, kind+": "+value)
		}
	}
	addColor(fg, "color")
	addColor(bg, "background-color")

	var decorations []string
	addStyle := func(on bool, class, rule string) {
		if !on {
			return
		}
		if c.classes {
			classes = append(classes, theme.StyleClass(class))
			return
		}
		if strings.HasPrefix(rule, "text-decoration: ") {
			decorations = append(decorations, strings.TrimPrefix(rule, "text-decoration: "))
			return
		}
		styles = append(styles, rule)
	}
	addStyle(seg.Bold(), "bold", "font-weight: bold")
	addStyle(seg.Faint(), "faint", "opacity: 0.7")
	addStyle(seg.Italic(), "italic", "font-style: italic")
	addStyle(seg.Underlined(), "underlined", "text-decoration: underline")
	addStyle(seg.Strikethrough(), "strikethrough", "text-decoration: line-through")
	addStyle(seg.Blinking(), "blink", "text-decoration: blink")
	addStyle(seg.Invisible(), "invisible", "visibility: hidden")
	if len(decorations) > 0 {
		styles = append(styles, "text-decoration: "+strings.Join(decorations, " "))
	}

	var attrs []string
	if len(classes) > 0 {
		attrs = append(attrs, `class="`+strings.Join(classes, " ")+`"`)
	}
	if len(styles) > 0 {
		attrs = append(attrs, `style="`+html.EscapeString(strings.Join(styles, "; "))+`"`)
	}
	return strings.Join(attrs, " ")
}

// resolve maps a parsed color to its theme name and CSS value. Basic colors
// resolve through the theme; extended colors keep the parser's hex value and
// have no theme name.
func resolve(col *ansi.Col, th *theme.Theme) (name, value string) {
	if idx, ok := basicIndex(col); ok && th != nil {
		if v, ok := th.Index(idx); ok {
			return theme.Names[idx], v
		}
	}
	return "", col.Hex
}

func basicIndex(col *ansi.Col) (int, bool) {
	if col.Id < 0 || col.Id >= len(basicNames) {
		return 0, false
	}
	if col.Name == basicNames[col.Id] || strings.EqualFold(col.Hex, basicHex[col.Id]) {
		return col.Id, true
	}
	return 0, false
}

func basicCol(idx int) *ansi.Col {
	return &ansi.Col{Id: idx, Name: basicNames[idx], Hex: basicHex[idx]}
}
