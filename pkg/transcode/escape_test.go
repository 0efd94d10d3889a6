package transcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no escapes", "hello world", "hello world"},
		{"other escapes untouched", "\x1b[31mred\x1b[0m \x1b[1K", "\x1b[31mred\x1b[0m \x1b[1K"},
		{"single erase", "progress 10%\x1b[2Kprogress 20%", "progress 10%\nprogress 20%"},
		{"adjacent erases are kept one for one", "a\x1b[2K\x1b[2Kb", "a\n\nb"},
		{"erase at edges", "\x1b[2Kmid\x1b[2K", "\nmid\n"},
		{"erase next to color", "\x1b[32mok\x1b[2K\x1b[0m", "\x1b[32mok\n\x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateEscapes(tt.input))
		})
	}
}

func TestTranslateEscapes_Laws(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"\x1b[1;31mbold red\x1b[0m",
		"x\x1b[2Ky\x1b[2K\x1b[2Kz",
		"\x1b[2",
		"\x1b[2K",
		"line\n\x1b[2Kagain\r\n",
	}
	for _, in := range inputs {
		once := TranslateEscapes(in)

		// Idempotence.
		assert.Equal(t, once, TranslateEscapes(once), "input %q", in)

		n := strings.Count(in, EraseLine)
		if n == 0 {
			// Identity.
			assert.Equal(t, in, once)
			continue
		}
		// Exactly N new newlines, nothing else changed.
		assert.Equal(t, strings.Count(in, "\n")+n, strings.Count(once, "\n"), "input %q", in)
		assert.Equal(t, strings.ReplaceAll(in, EraseLine, "\n"), once)
	}
}

func TestStripEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"\x1b]0;title\x07text", "text"},
		{"\x1b]8;;http://x\x1b\\link", "link"},
		{"\x1b(Bab", "ab"},
		{"\x1b[?25lhidden cursor\x1b[?25h", "hidden cursor"},
		{"dangling\x1b", "dangling"},
		{"\x1b[31", ""},
		{"a\x1b[", "a"},
		{"cut\x1b[1;3", "cut"},
		{"\x1b]0;unterminated", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripEscapes(tt.input), "input %q", tt.input)
	}
}

func TestStripNonSGR(t *testing.T) {
	in := "\x1b[2J\x1b[H\x1b[31mred\x1b[0m\x1b[3A"
	assert.Equal(t, "\x1b[31mred\x1b[0m", stripNonSGR(in))
}

func TestNormalizeSGR(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"\x1b[31mr\x1b[0m", "\x1b[0;31mr\x1b[0m"},
		{"\x1b[1;31mb\x1b[22mr", "\x1b[0;31;1mb\x1b[0;31mr"},
		{"\x1b[38;5;196;4mx", "\x1b[0;38;5;196;4mx"},
		{"\x1b[38:2::1:2:3mx", "\x1b[0;38;2;1;2;3mx"},
		{"\x1b[38;5mx", "\x1b[0mx"},
		{"\x1b[26;53;73mx", "\x1b[0mx"},
		{"a\x1b[31", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeSGR(tt.input), "input %q", tt.input)
	}
}
