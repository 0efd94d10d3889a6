package formatter

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

var colorIndex = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"gray":           8,
	"bright-black":   8,
	"bright-red":     9,
	"bright-green":   10,
	"bright-yellow":  11,
	"bright-blue":    12,
	"bright-magenta": 13,
	"bright-cyan":    14,
	"bright-white":   15,
}

// Options accepted by NewStyle.
var Options = []string{"bold", "underscore", "blink", "reverse", "italic", "faint", "crossout"}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Style is a foreground/background/options triple applied to tagged text.
type Style struct {
	fg      string
	bg      string
	options []string
}

// NewStyle validates and builds a Style. Colors are names ("default", "red",
// "bright-blue", "gray"...) or hex values; empty means unset.
func NewStyle(fg, bg string, options ...string) (*Style, error) {
	s := &Style{}
	var err error
	if s.fg, err = normalizeColor(fg); err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	if s.bg, err = normalizeColor(bg); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	for _, opt := range options {
		opt = strings.ToLower(strings.TrimSpace(opt))
		if opt == "" {
			continue
		}
		if !slices.Contains(Options, opt) {
			return nil, fmt.Errorf("invalid option %q (expected one of %v)", opt, Options)
		}
		if !slices.Contains(s.options, opt) {
			s.options = append(s.options, opt)
		}
	}
	return s, nil
}

// MustStyle is like NewStyle but panics on error.
func MustStyle(fg, bg string, options ...string) *Style {
	s, err := NewStyle(fg, bg, options...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseStyle builds a Style from an inline definition such as
// "fg=red;bg=blue;options=bold,underscore".
func ParseStyle(def string) (*Style, error) {
	var fg, bg string
	var options []string
	for _, part := range strings.Split(def, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid style attribute %q", part)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "fg":
			fg = value
		case "bg":
			bg = value
		case "options":
			options = append(options, strings.Split(value, ",")...)
		default:
			return nil, fmt.Errorf("unknown style attribute %q", key)
		}
	}
	return NewStyle(fg, bg, options...)
}

// Apply renders text with the style for the given color profile.
func (s *Style) Apply(text string, p termenv.Profile) string {
	if text == "" {
		return ""
	}
	out := p.String(text)
	if s.fg != "" {
		out = out.Foreground(p.Color(s.fg))
	}
	if s.bg != "" {
		out = out.Background(p.Color(s.bg))
	}
	for _, opt := range s.options {
		switch opt {
		case "bold":
			out = out.Bold()
		case "underscore":
			out = out.Underline()
		case "blink":
			out = out.Blink()
		case "reverse":
			out = out.Reverse()
		case "italic":
			out = out.Italic()
		case "faint":
			out = out.Faint()
		case "crossout":
			out = out.CrossOut()
		}
	}
	return out.String()
}

// normalizeColor turns a color name into the termenv color string
// ("0"-"15" or "#rrggbb"). "default" and "" both mean unset.
func normalizeColor(c string) (string, error) {
	c = strings.ToLower(strings.TrimSpace(c))
	switch {
	case c == "" || c == "default":
		return "", nil
	case hexColor.MatchString(c):
		if len(c) == 4 {
			c = "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
		}
		return c, nil
	}
	idx, ok := colorIndex[c]
	if !ok {
		return "", fmt.Errorf("invalid color %q", c)
	}
	return strconv.Itoa(idx), nil
}
