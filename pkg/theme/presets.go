package theme

import (
	"fmt"
	"sort"
)

var (
	defaultTheme = MustNew(map[string]string{
		"black":     "black",
		"red":       "darkred",
		"green":     "green",
		"yellow":    "yellow",
		"blue":      "blue",
		"magenta":   "darkmagenta",
		"cyan":      "cyan",
		"white":     "white",
		"brblack":   "gray",
		"brred":     "red",
		"brgreen":   "lightgreen",
		"bryellow":  "lightyellow",
		"brblue":    "lightblue",
		"brmagenta": "magenta",
		"brcyan":    "lightcyan",
		"brwhite":   "white",
	})

	solarizedTheme = MustNew(map[string]string{
		"black":     "#073642",
		"red":       "#dc322f",
		"green":     "#859900",
		"yellow":    "#b58900",
		"blue":      "#268bd2",
		"magenta":   "#d33682",
		"cyan":      "#2aa198",
		"white":     "#eee8d5",
		"brblack":   "#002b36",
		"brred":     "#cb4b16",
		"brgreen":   "#586e75",
		"bryellow":  "#657b83",
		"brblue":    "#839496",
		"brmagenta": "#6c71c4",
		"brcyan":    "#93a1a1",
		"brwhite":   "#fdf6e3",
	})

	solarizedXTermTheme = MustNew(map[string]string{
		"black":     "#262626",
		"red":       "#d70000",
		"green":     "#5f8700",
		"yellow":    "#af8700",
		"blue":      "#0087ff",
		"magenta":   "#af005f",
		"cyan":      "#00afaf",
		"white":     "#e4e4e4",
		"brblack":   "#1c1c1c",
		"brred":     "#d75f00",
		"brgreen":   "#585858",
		"bryellow":  "#626262",
		"brblue":    "#808080",
		"brmagenta": "#5f5faf",
		"brcyan":    "#8a8a8a",
		"brwhite":   "#ffffd7",
	})

	presets = map[string]*Theme{
		"default":         defaultTheme,
		"solarized":       solarizedTheme,
		"solarized-xterm": solarizedXTermTheme,
	}
)

// Default returns the built-in theme using CSS named colors.
func Default() *Theme { return defaultTheme }

// Solarized returns the Solarized palette.
func Solarized() *Theme { return solarizedTheme }

// SolarizedXTerm returns the Solarized palette approximated to xterm-256 colors.
func SolarizedXTerm() *Theme { return solarizedXTermTheme }

// Lookup returns a built-in theme by name. The empty name selects the default theme.
func Lookup(name string) (*Theme, error) {
	if name == "" {
		return defaultTheme, nil
	}
	t, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, Presets())
	}
	return t, nil
}

// Presets lists the names of the built-in themes.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
