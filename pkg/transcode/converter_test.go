package transcode

import (
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTheme(t *testing.T) *theme.Theme {
	t.Helper()
	th, err := theme.Default().Extend(map[string]string{"red": "red", "green": "lime"})
	require.NoError(t, err)
	return th
}

func TestHTMLConverter_PassesPlainTextEscaped(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert(`a < b & "c"`, testTheme(t))
	require.NoError(t, err)
	assert.Equal(t, "a &lt; b &amp; &#34;c&#34;", out)
}

func TestHTMLConverter_Colors(t *testing.T) {
	c := NewHTMLConverter()
	th := testTheme(t)

	out, err := c.Convert("\x1b[31mworld\x1b[0m", th)
	require.NoError(t, err)
	assert.Equal(t, `<span style="color: red">world</span>`, out)

	out, err = c.Convert("say \x1b[32mgo\x1b[0m now", th)
	require.NoError(t, err)
	assert.Equal(t, `say <span style="color: lime">go</span> now`, out)
}

func TestHTMLConverter_ClosesOpenStyles(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[32mnever reset", testTheme(t))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "</span>"), out)
	assert.Equal(t, strings.Count(out, "<span"), strings.Count(out, "</span>"))
}

func TestHTMLConverter_TextStyles(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[4mline\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Contains(t, out, "text-decoration: underline")
	assert.Contains(t, out, ">line</span>")

	out, err = c.Convert("\x1b[3mslanted\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Contains(t, out, "font-style: italic")
}

func TestHTMLConverter_EscapesStyledLabels(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[31m<b>\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;</span>")
	assert.NotContains(t, out, "<b>")
}

func TestHTMLConverter_DropsNonSGR(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[3A\x1b[2Jup", testTheme(t))
	require.NoError(t, err)
	assert.Equal(t, "up", out)
}

func TestHTMLConverter_NeverFailsOnGarbage(t *testing.T) {
	c := NewHTMLConverter()
	inputs := []string{
		"\x1b[31mx\x1b[",
		"\x1b[999;999;999mtext",
		"\x1b[38;5mbroken",
		"\x1b",
		"\x1b[;;m",
	}
	for _, in := range inputs {
		out, err := c.Convert(in, testTheme(t))
		require.NoError(t, err, "input %q", in)
		assert.NotContains(t, out, "\x1b", "input %q", in)
		assert.Equal(t, strings.Count(out, "<span"), strings.Count(out, "</span>"), "input %q", in)
	}
}

func TestHTMLConverter_ExtendedColorKeepsHex(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[38;2;255;128;0morange\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "color: #ff8000")
	assert.Contains(t, out, "orange</span>")
}

func TestHTMLConverter_ClassMode(t *testing.T) {
	c := NewHTMLConverter(WithClasses())

	out, err := c.Convert("\x1b[31mred\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Equal(t, `<span class="ansi_color_fg_red">red</span>`, out)
}

func TestHTMLConverter_ConcurrentUse(t *testing.T) {
	c := NewHTMLConverter()
	th := testTheme(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := c.Convert("\x1b[31mworld\x1b[0m", th)
			assert.NoError(t, err)
			assert.Equal(t, `<span style="color: red">world</span>`, out)
		}()
	}
	wg.Wait()
}

func TestHTMLConverter_AttributeOffCodesKeepColors(t *testing.T) {
	c := NewHTMLConverter()
	th := testTheme(t)

	for _, code := range []string{"21", "22", "23", "24", "25", "27", "28", "29", "53", "4:3", "58;5;1", "58:2::1:2:3"} {
		out, err := c.Convert("\x1b[31mred\x1b["+code+"m rest", th)
		require.NoError(t, err, code)
		assert.True(t, strings.HasPrefix(out, `<span style="color: red">red</span>`), "code %s: %s", code, out)
		assert.Contains(t, out, " rest", code)
		assert.NotContains(t, out, "\x1b", code)
	}
}

func TestHTMLConverter_AttributeOff(t *testing.T) {
	c := NewHTMLConverter()
	th := testTheme(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold off", "\x1b[1mbold\x1b[22mplain", `<span style="font-weight: bold">bold</span>plain`},
		{"underline off keeps color", "\x1b[4;31mu\x1b[24mred", `<span style="color: red; text-decoration: underline">u</span><span style="color: red">red</span>`},
		{"italic off", "\x1b[3mi\x1b[23mn", `<span style="font-style: italic">i</span>n`},
		{"colon underline", "\x1b[4:3mcurly\x1b[4:0m", `<span style="text-decoration: underline">curly</span>`},
		{"default foreground", "\x1b[31mred\x1b[39m rest", `<span style="color: red">red</span> rest`},
		{"default background", "\x1b[41mbg\x1b[49m rest", `<span style="background-color: red">bg</span> rest`},
		{"bold does not brighten", "\x1b[1;31mx\x1b[0m", `<span style="color: red; font-weight: bold">x</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Convert(tt.input, th)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestHTMLConverter_ColonExtendedColors(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[38:2::255:128:0mx\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Equal(t, `<span style="color: #ff8000">x</span>`, out)

	out, err = c.Convert("\x1b[48:2:0:0:255mx\x1b[0m", testTheme(t))
	require.NoError(t, err)
	assert.Equal(t, `<span style="background-color: #0000ff">x</span>`, out)
}

func TestHTMLConverter_BrightBlackIsVisible(t *testing.T) {
	c := NewHTMLConverter()

	out, err := c.Convert("\x1b[90mdim\x1b[0m", theme.Default())
	require.NoError(t, err)
	assert.Equal(t, `<span style="color: gray">dim</span>`, out)
}

func TestHTMLConverter_TruncatedSequences(t *testing.T) {
	c := NewHTMLConverter()
	th := testTheme(t)

	tests := map[string]string{
		"\x1b[31":        "",
		"a\x1b[":         "a",
		"\x1b[31mx\x1b[": `<span style="color: red">x</span>`,
		"\x1b]0;title":   "",
		"\x1b[?1mtext":   "text",
	}
	for in, want := range tests {
		out, err := c.Convert(in, th)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, out, "input %q", in)
	}
}
