package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/consolehttp/pkg/transcode"
	"github.com/muesli/termenv"
)

// tagPattern matches <name>, <fg=..;bg=..>, </name> and </>.
var tagPattern = regexp.MustCompile(`(?i)<([a-z][^<>]*|/(?:[a-z][^<>]*)?)>`)

// DefaultStyles returns the styles every TagFormatter starts with.
func DefaultStyles() map[string]*Style {
	return map[string]*Style{
		"error":    MustStyle("white", "red"),
		"info":     MustStyle("green", ""),
		"comment":  MustStyle("yellow", ""),
		"question": MustStyle("black", "cyan"),
	}
}

// TagFormatter resolves style tags to SGR escape sequences. It is the base
// formatter console applications write through.
//
// When not decorated, tags are removed and any raw escape sequence in the
// message is stripped, leaving plain text.
type TagFormatter struct {
	decorated bool
	profile   termenv.Profile
	styles    map[string]*Style
}

// TagOption configures a TagFormatter.
type TagOption func(*TagFormatter)

// WithProfile sets the color profile used when decorated (default true color).
func WithProfile(p termenv.Profile) TagOption {
	return func(f *TagFormatter) {
		f.profile = p
	}
}

// WithStyles registers additional named styles.
func WithStyles(styles map[string]*Style) TagOption {
	return func(f *TagFormatter) {
		for name, s := range styles {
			f.SetStyle(name, s)
		}
	}
}

// NewTagFormatter creates a TagFormatter with the default styles.
func NewTagFormatter(decorated bool, opts ...TagOption) *TagFormatter {
	f := &TagFormatter{
		decorated: decorated,
		profile:   termenv.TrueColor,
		styles:    DefaultStyles(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Escape makes text safe to pass through Format verbatim.
func Escape(text string) string {
	return strings.ReplaceAll(text, "<", `\<`)
}

func unescape(text string) string {
	return strings.ReplaceAll(text, `\<`, "<")
}

// SetDecorated implements Formatter.
func (f *TagFormatter) SetDecorated(decorated bool) { f.decorated = decorated }

// IsDecorated implements Formatter.
func (f *TagFormatter) IsDecorated() bool { return f.decorated }

// SetStyle implements Formatter.
func (f *TagFormatter) SetStyle(name string, style *Style) {
	f.styles[strings.ToLower(name)] = style
}

// HasStyle implements Formatter.
func (f *TagFormatter) HasStyle(name string) bool {
	_, ok := f.styles[strings.ToLower(name)]
	return ok
}

// Style implements Formatter.
func (f *TagFormatter) Style(name string) (*Style, error) {
	s, ok := f.styles[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return s, nil
}

type openTag struct {
	name  string
	style *Style
}

// Format implements Formatter.
func (f *TagFormatter) Format(msg string) (string, error) {
	var b strings.Builder
	var stack []openTag
	offset := 0

	write := func(text string) {
		if text == "" {
			return
		}
		text = unescape(text)
		if !f.decorated {
			b.WriteString(transcode.StripEscapes(text))
			return
		}
		if len(stack) == 0 {
			b.WriteString(text)
			return
		}
		b.WriteString(stack[len(stack)-1].style.Apply(text, f.profile))
	}

	for _, m := range tagPattern.FindAllStringSubmatchIndex(msg, -1) {
		start, end := m[0], m[1]
		if start > 0 && msg[start-1] == '\\' {
			continue
		}
		tag := msg[m[2]:m[3]]

		if closing, ok := strings.CutPrefix(tag, "/"); ok {
			idx := matchClosing(stack, closing)
			if idx < 0 {
				// Stray closing tag: keep it verbatim.
				continue
			}
			write(msg[offset:start])
			stack = stack[:idx]
			offset = end
			continue
		}

		style := f.lookup(tag)
		if style == nil {
			continue
		}
		write(msg[offset:start])
		stack = append(stack, openTag{name: strings.ToLower(tag), style: style})
		offset = end
	}
	write(msg[offset:])

	return b.String(), nil
}

// lookup resolves an opening tag to a registered or inline style.
func (f *TagFormatter) lookup(tag string) *Style {
	if s, ok := f.styles[strings.ToLower(tag)]; ok {
		return s
	}
	if !strings.Contains(tag, "=") {
		return nil
	}
	s, err := ParseStyle(tag)
	if err != nil {
		return nil
	}
	return s
}

// matchClosing returns the stack length after closing name, or -1 when no
// open tag matches. "</>" closes the innermost tag.
func matchClosing(stack []openTag, name string) int {
	if len(stack) == 0 {
		return -1
	}
	if name == "" {
		return len(stack) - 1
	}
	name = strings.ToLower(name)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

// StripTags removes style tags and escape sequences from msg.
func StripTags(msg string) string {
	out, _ := NewTagFormatter(false).Format(msg)
	return out
}
