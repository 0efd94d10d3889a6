package process

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/consolehttp/internal/testutils"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/aretw0/consolehttp/pkg/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func shell(name, script string, extra ...func(*ProcessConfig)) ProcessConfig {
	c := ProcessConfig{Name: name, Command: "sh", Args: []string{"-c", script, "sh"}}
	for _, fn := range extra {
		fn(&c)
	}
	return c
}

func newOutput(decorated bool) (*testutils.Sink, *output.Output) {
	sink := testutils.NewSink(decorated)
	var f formatter.Formatter = formatter.NewTagFormatter(decorated)
	if decorated {
		f = formatter.NewHTMLFormatter(f, transcode.NewHTMLConverter(), theme.Default())
	}
	return sink, output.New(sink, f)
}

func TestRunner_StreamsLines(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("hello", `echo hello; echo '<info>not a tag</info>'; printf '\033[31mred\033[0m\n'; echo oops >&2; printf partial`))

	sink, out := newOutput(false)
	require.NoError(t, r.Run(context.Background(), input.New("hello"), out))

	assert.Equal(t, []string{"hello\n", "<info>not a tag</info>\n", "red\n", "oops\n", "partial\n"}, sink.Chunks())
}

func TestRunner_Decorated(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("red", `printf 'a < b \033[31mred\033[0m\n'`))

	sink, out := newOutput(true)
	require.NoError(t, r.Run(context.Background(), input.New("red"), out))
	assert.Equal(t, []string{`a &lt; b <span style="color: darkred">red</span>` + "\n"}, sink.Chunks())
}

func TestRunner_PTY(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("tty", `if [ -t 1 ]; then echo tty; else echo pipe; fi`, func(c *ProcessConfig) { c.PTY = true }))

	sink, out := newOutput(true)
	err := r.Run(context.Background(), input.New("tty"), out)
	if err != nil && strings.Contains(err.Error(), "on pty") {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	require.NoError(t, err)
	assert.Equal(t, []string{"tty\n"}, sink.Chunks())

	// Undecorated sessions never get a terminal.
	sink, out = newOutput(false)
	require.NoError(t, r.Run(context.Background(), input.New("tty"), out))
	assert.Equal(t, []string{"pipe\n"}, sink.Chunks())
}

func TestRunner_ExitCode(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("fail", `echo before; exit 3`))

	sink, out := newOutput(false)
	err := r.Run(context.Background(), input.New("fail"), out)

	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.Code)
	assert.Equal(t, "fail", ee.Command)
	assert.Equal(t, 3, app.ExitCode(err))
	assert.Equal(t, []string{"before\n"}, sink.Chunks())
}

func TestRunner_ArgumentsAndOptions(t *testing.T) {
	skipWindows(t)
	r := NewRunner(WithRegistry(map[string]ProcessConfig{
		"args":   shell("", `echo "args:$*"`, func(c *ProcessConfig) { c.PassArgs = true }),
		"noargs": shell("", `echo "args:$*"`),
		"env": shell("", `echo "$CONSOLEHTTP_OPT_VALUE|$CONSOLEHTTP_OPT_NO_COLOR|$GREETING"`, func(c *ProcessConfig) {
			c.Environment = map[string]string{"GREETING": "hi"}
		}),
	}))

	sink, out := newOutput(false)
	require.NoError(t, r.Run(context.Background(), input.New("args", "x", "y z"), out))
	require.NoError(t, r.Run(context.Background(), input.New("noargs", "x"), out))
	require.NoError(t, r.Run(context.Background(), input.New("--value=1 2", "--no-color", "env"), out))

	assert.Equal(t, []string{"args:x y z\n", "args:\n", "1 2|1|hi\n"}, sink.Chunks())
}

func TestRunner_Dir(t *testing.T) {
	skipWindows(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("found"), 0o600))

	r := NewRunner(WithBaseDir(dir))
	r.Register(shell("cat", `cat marker`))

	sink, out := newOutput(false)
	require.NoError(t, r.Run(context.Background(), input.New("cat"), out))
	assert.Equal(t, []string{"found\n"}, sink.Chunks())
}

func TestRunner_StopsOnWriteFailure(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("loop", `while true; do echo line; done`))

	sink, out := newOutput(false)
	out.Close()
	err := r.Run(context.Background(), input.New("loop"), out)
	assert.ErrorIs(t, err, output.ErrClosed)
	assert.Empty(t, sink.Chunks())
}

type flushSink struct {
	buf     strings.Builder
	flushed chan string
}

func (s *flushSink) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *flushSink) Flush() error {
	s.flushed <- s.buf.String()
	s.buf.Reset()
	return nil
}

func TestRunner_RedrawReachesClientBeforeNewline(t *testing.T) {
	sink := &flushSink{flushed: make(chan string, 4)}
	out := output.New(sink, formatter.NewTagFormatter(false))
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- NewRunner().copyLines(pr, out, func() {}) }()

	_, err := pw.Write([]byte("10%\x1b[2K20%"))
	require.NoError(t, err)
	select {
	case chunk := <-sink.flushed:
		assert.Equal(t, "10%\n", chunk)
	case <-time.After(5 * time.Second):
		t.Fatal("redrawn line not written before the newline")
	}

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
	assert.Equal(t, "20%\n", <-sink.flushed)
}

func TestRunner_RedrawingCommand(t *testing.T) {
	skipWindows(t)
	r := NewRunner()
	r.Register(shell("progress", `printf '1/2\033[2K2/2\033[2Kdone'`))

	sink, out := newOutput(true)
	require.NoError(t, r.Run(context.Background(), input.New("progress"), out))
	assert.Equal(t, "1/2\n2/2\ndone\n", sink.String())
}

func TestRunner_ListAndUnknown(t *testing.T) {
	r := NewRunner()
	r.Register(ProcessConfig{Name: "build", Command: "make", Description: "Build <all>"})
	r.Register(ProcessConfig{Name: "up", Command: "docker", Description: "Start"})

	sink, out := newOutput(false)
	require.NoError(t, r.Run(context.Background(), input.New(), out))
	assert.Equal(t, []string{
		"Available commands:\n",
		"  build  Build <all>\n",
		"  up     Start\n",
	}, sink.Chunks())

	sink, out = newOutput(false)
	err := r.Run(context.Background(), input.New("rm"), out)
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, []string{"Command \"rm\" is not defined.\n"}, sink.Chunks())
}
