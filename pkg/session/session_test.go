package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/consolehttp/internal/testutils"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/aretw0/consolehttp/pkg/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const closeFrame = "</pre></body></html>\n"

var testTheme = theme.MustNew(map[string]string{"black": "black", "red": "red", "green": "green"})

func lines(ls ...string) app.Func {
	return func(_ context.Context, _ *input.Input, out *output.Output) error {
		for _, l := range ls {
			if err := out.Writeln(l); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestRun_Decorated(t *testing.T) {
	sink := testutils.NewSink(false)
	s := session.New(sink, session.WithTheme(testTheme))

	err := s.Run(context.Background(), lines("hello", "\x1b[31mworld\x1b[0m"), input.New("--ansi"))
	require.NoError(t, err)

	chunks := sink.Chunks()
	require.Len(t, chunks, 4)
	assert.True(t, strings.HasPrefix(chunks[0], "<!DOCTYPE html>"))
	assert.Contains(t, chunks[0], ".ansi_color_bg_black{background-color:black}")
	assert.Contains(t, chunks[0], `<pre class="ansi_color_bg_black" style=`)
	assert.Equal(t, "hello\n", chunks[1])
	assert.Equal(t, `<span style="color: red">world</span>`+"\n", chunks[2])
	assert.Equal(t, closeFrame, chunks[3])
	assert.Equal(t, session.StateClosed, s.State())
}

func TestRun_Undecorated(t *testing.T) {
	sink := testutils.NewSink(true)
	s := session.New(sink, session.WithTheme(testTheme))

	err := s.Run(context.Background(), lines("hello", "\x1b[31mworld\x1b[0m"), input.New("--no-ansi"))
	require.NoError(t, err)

	chunks := sink.Chunks()
	require.Len(t, chunks, 4)
	assert.Contains(t, chunks[0], "<style>\n\n</style>")
	assert.Contains(t, chunks[0], `<pre class="" style=`)
	assert.Equal(t, []string{"hello\n", "world\n", closeFrame}, chunks[1:])
}

func TestRun_UndecoratedEscapesMarkup(t *testing.T) {
	sink := testutils.NewSink(false)

	err := session.New(sink).Run(context.Background(), lines(
		"<script>alert(1)</script>",
		"<info>a & b</info>",
	), input.New("--no-ansi"))
	require.NoError(t, err)

	chunks := sink.Chunks()
	require.Len(t, chunks, 4)
	assert.Equal(t, []string{"&lt;script&gt;alert(1)&lt;/script&gt;\n", "a &amp; b\n"}, chunks[1:3])
}

func TestRun_SinkCapabilityDecides(t *testing.T) {
	sink := testutils.NewSink(true)
	require.NoError(t, session.New(sink).Run(context.Background(), lines("<info>ok</info>"), input.New()))
	assert.Contains(t, sink.Chunks()[0], "ansi_color_bg_black")
	assert.Contains(t, sink.Chunks()[1], "<span ")
	assert.Contains(t, sink.Chunks()[1], ">ok</span>")
}

func TestRun_FailureStillClosesDocument(t *testing.T) {
	boom := errors.New("boom")
	sink := testutils.NewSink(false)
	s := session.New(sink)

	err := s.Run(context.Background(), app.Func(func(_ context.Context, _ *input.Input, out *output.Output) error {
		require.NoError(t, out.Writeln("one"))
		return boom
	}), input.New("--ansi"))
	assert.ErrorIs(t, err, boom)

	chunks := sink.Chunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, "one\n", chunks[1])
	assert.Equal(t, closeFrame, chunks[2])
	assert.Equal(t, 1, strings.Count(sink.String(), "</pre></body></html>"))

	// Nothing after the closing frame.
	assert.ErrorIs(t, s.Output().Writeln("late"), output.ErrClosed)
	assert.Len(t, sink.Chunks(), 3)
}

func TestRun_PanicStillClosesDocument(t *testing.T) {
	sink := testutils.NewSink(false)
	s := session.New(sink)

	assert.Panics(t, func() {
		_ = s.Run(context.Background(), app.Func(func(context.Context, *input.Input, *output.Output) error {
			panic("crash")
		}), input.New())
	})
	assert.True(t, strings.HasSuffix(sink.String(), closeFrame))
}

func TestRun_EraseLineMidStream(t *testing.T) {
	sink := testutils.NewSink(false)
	s := session.New(sink, session.WithTheme(testTheme))

	require.NoError(t, s.Run(context.Background(), lines("a\x1b[2Kb\x1b[32mc\x1b[0m"), input.New("--ansi")))
	assert.Equal(t, `a`+"\n"+`b<span style="color: green">c</span>`+"\n", sink.Chunks()[1])
}

type failingConverter struct{}

func (failingConverter) Convert(string, *theme.Theme) (string, error) {
	return "", errors.New("converter down")
}

var _ transcode.Converter = failingConverter{}

func TestRun_ConversionFailure(t *testing.T) {
	sink := testutils.NewSink(false)
	s := session.New(sink, session.WithConverter(failingConverter{}))

	// The application ignores write errors; the session still reports it.
	err := s.Run(context.Background(), app.Func(func(_ context.Context, _ *input.Input, out *output.Output) error {
		_ = out.Writeln("one")
		_ = out.Writeln("two")
		return nil
	}), input.New("--ansi"))

	assert.ErrorIs(t, err, output.ErrConversion)
	assert.ErrorContains(t, err, "converter down")
	chunks := sink.Chunks()
	require.Len(t, chunks, 2, "no content line is written")
	assert.Equal(t, closeFrame, chunks[1])
}

func TestRun_Quiet(t *testing.T) {
	sink := testutils.NewSink(false)
	require.NoError(t, session.New(sink).Run(context.Background(), lines("hidden"), input.New("-q")))
	assert.Len(t, sink.Chunks(), 2)
	assert.Equal(t, closeFrame, sink.Chunks()[1])
}

func TestSession_StateMachine(t *testing.T) {
	s := session.New(testutils.NewSink(false), session.WithID("s-1"))
	assert.Equal(t, "s-1", s.ID())
	assert.Equal(t, session.StateInit, s.State())
	assert.Nil(t, s.Output())

	ctx := context.Background()
	require.NoError(t, s.Start(ctx, input.New()))
	assert.Equal(t, session.StateStreaming, s.State())
	assert.ErrorIs(t, s.Start(ctx, input.New()), session.ErrSessionStarted)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), session.ErrSessionClosed)
	assert.ErrorIs(t, s.Start(ctx, input.New()), session.ErrSessionClosed)
	assert.Equal(t, "closed", s.State().String())
}

func TestSession_CloseBeforeStart(t *testing.T) {
	sink := testutils.NewSink(false)
	s := session.New(sink)
	require.NoError(t, s.Close())
	assert.Empty(t, sink.Chunks())
}

func TestSession_Hooks(t *testing.T) {
	var events []string
	var closed *session.Event
	hooks := session.Hooks{
		OnStart: func(_ context.Context, e *session.Event) { events = append(events, "start:"+e.SessionID) },
		OnLine:  func(context.Context, *session.Event) { events = append(events, "line") },
		OnClose: func(_ context.Context, e *session.Event) { closed = e },
	}
	boom := errors.New("boom")
	s := session.New(testutils.NewSink(false), session.WithID("id"), session.WithHooks(session.Merge(hooks, session.Hooks{})))

	err := s.Run(context.Background(), app.Func(func(ctx context.Context, in *input.Input, out *output.Output) error {
		_ = lines("a", "b").Run(ctx, in, out)
		return boom
	}), input.New("--ansi"))
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"start:id", "line", "line"}, events)
	require.NotNil(t, closed)
	assert.True(t, closed.Decorated)
	assert.Equal(t, 2, closed.Lines)
	assert.Positive(t, closed.Bytes)
	assert.ErrorIs(t, closed.Err, boom)
}

func TestMerge(t *testing.T) {
	var calls []int
	h := session.Merge(
		session.Hooks{OnLine: func(context.Context, *session.Event) { calls = append(calls, 1) }},
		session.Hooks{},
		session.Hooks{OnLine: func(context.Context, *session.Event) { calls = append(calls, 2) }},
	)
	h.OnLine(context.Background(), &session.Event{})
	assert.Equal(t, []int{1, 2}, calls)
	assert.Nil(t, h.OnStart)
}
