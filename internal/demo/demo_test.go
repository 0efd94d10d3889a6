package demo

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/consolehttp/internal/testutils"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run streams a demo invocation and returns the content chunks, frames excluded.
func run(t *testing.T, tokens ...string) ([]string, error) {
	t.Helper()
	sink := testutils.NewSink(false)
	err := session.New(sink).Run(context.Background(), app.NewCobra(NewCommand), input.New(tokens...))
	chunks := sink.Chunks()
	require.GreaterOrEqual(t, len(chunks), 2)
	return chunks[1 : len(chunks)-1], err
}

func TestGreet(t *testing.T) {
	chunks, err := run(t, "greet", "gopher")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello gopher\n"}, chunks)

	chunks, err = run(t, "-v", "greet", "<b>", "--yell")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello &lt;B&gt;!\n", "greeted in verbose mode\n"}, chunks)
}

func TestGreet_Decorated(t *testing.T) {
	chunks, err := run(t, "--ansi", "greet")
	require.NoError(t, err)
	assert.Equal(t, []string{`Hello <span style="color: green">world</span>` + "\n"}, chunks)
}

func TestColors(t *testing.T) {
	chunks, err := run(t, "--ansi", "colors", "-v")
	require.NoError(t, err)

	doc := strings.Join(chunks, "")
	assert.Contains(t, doc, `<span style="color: darkred">red      </span>`)
	assert.Contains(t, doc, "background-color: ")
	assert.Contains(t, doc, "font-style: italic")
	assert.NotContains(t, doc, "\x1b")
	assert.NotContains(t, doc, "<fg=")
}

func TestProgress_EraseLine(t *testing.T) {
	chunks, err := run(t, "--ansi", "progress", "--steps=2", "--delay=0s")
	require.NoError(t, err)

	require.Len(t, chunks, 4)
	assert.True(t, strings.HasPrefix(chunks[1], "\n<span "), "erase-line becomes a newline")
	assert.Contains(t, chunks[1], "[#.]</span>  50%")
	assert.Contains(t, chunks[2], "[##]</span> 100%")
}

func TestProgress_Undecorated(t *testing.T) {
	chunks, err := run(t, "progress", "--steps=1", "--delay=0s")
	require.NoError(t, err)
	assert.Equal(t, []string{"Working...\n", "[#] 100%\n", "Done.\n"}, chunks)
}

func TestFail(t *testing.T) {
	chunks, err := run(t, "fail", "--code=4")
	assert.Equal(t, 4, app.ExitCode(err))
	assert.Equal(t, []string{"About to fail...\n", "Error: failed with status 4\n"}, chunks)
}

func TestDoc(t *testing.T) {
	chunks, err := run(t, "doc", "--width=60")
	require.NoError(t, err)

	doc := strings.Join(chunks, "")
	assert.Contains(t, doc, "consolehttp")
	assert.Contains(t, doc, "/run/greet/gopher")
	assert.NotContains(t, doc, "\x1b")
}

func TestBanner(t *testing.T) {
	chunks, err := run(t, "--ansi", "banner")
	require.NoError(t, err)
	require.Len(t, chunks, len(bannerLines))
	assert.Contains(t, chunks[0], "color: #818cf8")
}
