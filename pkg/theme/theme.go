package theme

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Prefix is the CSS class prefix shared by the stylesheet and class-mode markup.
const Prefix = "ansi_color"

// Names lists the color names a Theme may define, in basic ANSI index order.
// Index i (0-15) of this slice is the name of SGR color i.
var Names = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"brblack", "brred", "brgreen", "bryellow", "brblue", "brmagenta", "brcyan", "brwhite",
}

// Theme maps semantic color names to concrete CSS color values.
// A Theme is immutable once built and safe for concurrent use.
type Theme struct {
	colors map[string]string
	css    string
}

// New builds a Theme from the given name/value pairs.
// Unknown names and empty values are rejected.
func New(colors map[string]string) (*Theme, error) {
	t := &Theme{colors: make(map[string]string, len(colors))}
	for name, value := range colors {
		if !isKnown(name) {
			return nil, fmt.Errorf("unknown theme color %q", name)
		}
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("empty value for theme color %q", name)
		}
		t.colors[name] = value
	}
	t.css = t.buildCSS()
	return t, nil
}

// MustNew is like New but panics on error. Intended for package-level themes.
func MustNew(colors map[string]string) *Theme {
	t, err := New(colors)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend returns a new Theme with overrides applied on top of t.
func (t *Theme) Extend(overrides map[string]string) (*Theme, error) {
	merged := t.Colors()
	maps.Copy(merged, overrides)
	return New(merged)
}

// Color returns the value bound to name.
func (t *Theme) Color(name string) (string, bool) {
	v, ok := t.colors[name]
	return v, ok
}

// Index returns the value of basic SGR color i (0-15).
func (t *Theme) Index(i int) (string, bool) {
	if i < 0 || i >= len(Names) {
		return "", false
	}
	return t.Color(Names[i])
}

// Colors returns a copy of the theme's color map.
func (t *Theme) Colors() map[string]string {
	return maps.Clone(t.colors)
}

// CSS returns the stylesheet derived from the theme.
func (t *Theme) CSS() string {
	return t.css
}

// BackgroundClass returns the class name that applies the named background color.
func BackgroundClass(name string) string {
	return Prefix + "_bg_" + name
}

// ForegroundClass returns the class name that applies the named foreground color.
func ForegroundClass(name string) string {
	return Prefix + "_fg_" + name
}

// StyleClass returns the class name of a text style (bold, underlined...).
func StyleClass(name string) string {
	return Prefix + "_" + name
}

var styleRules = []struct{ name, rule string }{
	{"bold", "font-weight:bold"},
	{"faint", "opacity:0.7"},
	{"italic", "font-style:italic"},
	{"underlined", "text-decoration:underline"},
	{"strikethrough", "text-decoration:line-through"},
	{"blink", "text-decoration:blink"},
	{"invisible", "visibility:hidden"},
}

func (t *Theme) buildCSS() string {
	var rules []string
	for _, name := range Names {
		value, ok := t.colors[name]
		if !ok {
			continue
		}
		rules = append(rules,
			fmt.Sprintf(".%s{color:%s}", ForegroundClass(name), value),
			fmt.Sprintf(".%s{background-color:%s}", BackgroundClass(name), value),
		)
	}
	for _, s := range styleRules {
		rules = append(rules, fmt.Sprintf(".%s{%s}", StyleClass(s.name), s.rule))
	}
	return strings.Join(rules, "\n")
}

func isKnown(name string) bool {
	return slices.Contains(Names, name)
}
