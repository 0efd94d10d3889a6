package transcode

import (
	"regexp"
	"strings"
)

// EraseLine is the "erase entire line" control sequence (CSI 2 K).
const EraseLine = "\x1b[2K"

// escapeReplacer holds the control sequences rewritten before color conversion.
// A browser cannot erase an already rendered line, so the sequence ends the
// current line instead.
var escapeReplacer = strings.NewReplacer(
	EraseLine, "\n",
)

// TranslateEscapes replaces every erase-line sequence in s with a newline,
// one for one. All other bytes, other escape sequences included, are untouched.
func TranslateEscapes(s string) string {
	if !strings.Contains(s, EraseLine) {
		return s
	}
	return escapeReplacer.Replace(s)
}

var (
	// escapePattern matches CSI sequences, truncated ones included, OSC
	// sequences (BEL or ST terminated, or cut at the end of the text), charset
	// selection and the short two-byte escapes.
	escapePattern = regexp.MustCompile(`\x1b(?:\[[0-9:;<=>?]*[ -/]*[@-~]?|\][^\x07\x1b]*(?:\x07|\x1b\\|$)|[()][AB012]|[78=>cDEHM])`)

	// nonSGRPattern is escapePattern minus SGR (CSI ... m) and truncated CSI,
	// which normalizeSGR drops.
	nonSGRPattern = regexp.MustCompile(`\x1b(?:\[[0-9:;<=>?]*[ -/]*[@-ln-~]|\][^\x07\x1b]*(?:\x07|\x1b\\|$)|[()][AB012]|[78=>cDEHM])`)
)

// StripEscapes removes every escape sequence from s, including a dangling ESC
// that does not start a recognised sequence.
func StripEscapes(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	s = escapePattern.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\x1b", "")
}

// stripNonSGR removes every escape sequence except SGR color/style codes.
func stripNonSGR(s string) string {
	return nonSGRPattern.ReplaceAllString(s, "")
}
