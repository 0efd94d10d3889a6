package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/creack/pty"
)

// EnvOptionPrefix prefixes the environment variables carrying request options.
const EnvOptionPrefix = "CONSOLEHTTP_OPT_"

// Runner is an Application running allow-listed external commands. The first
// positional argument selects the command; request options reach it as
// CONSOLEHTTP_OPT_<NAME> environment variables, never as flags.
type Runner struct {
	registry  map[string]ProcessConfig
	baseDir   string
	logger    *slog.Logger
	waitDelay time.Duration
	size      pty.Winsize
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list.
func WithRegistry(commands map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, c := range commands {
			c.Name = name
			r.Register(c)
		}
	}
}

// WithBaseDir sets the working directory of commands without a dir.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTerminalSize sets the pseudo-terminal size of pty commands (default 120x40).
func WithTerminalSize(cols, rows uint16) RunnerOption {
	return func(r *Runner) {
		r.size = pty.Winsize{Cols: cols, Rows: rows}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry:  make(map[string]ProcessConfig),
		logger:    logging.NewNop(),
		waitDelay: 2 * time.Second,
		size:      pty.Winsize{Cols: 120, Rows: 40},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(c ProcessConfig) {
	r.registry[c.Name] = c
}

// Commands returns the registered commands sorted by name.
func (r *Runner) Commands() []ProcessConfig {
	return slices.SortedFunc(maps.Values(r.registry), func(a, b ProcessConfig) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Run implements app.Application. Without arguments it lists the commands.
func (r *Runner) Run(ctx context.Context, in *input.Input, out *output.Output) error {
	args := in.Args()
	if len(args) == 0 {
		return r.list(out)
	}
	c, ok := r.registry[args[0]]
	if !ok {
		if err := out.Writeln("<error>Command \"" + formatter.Escape(args[0]) + "\" is not defined.</error>"); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrNotRegistered, args[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmdArgs := slices.Clone(c.Args)
	if c.PassArgs {
		cmdArgs = append(cmdArgs, args[1:]...)
	}
	cmd := exec.CommandContext(ctx, c.Command, cmdArgs...)
	cmd.Dir = c.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.baseDir
	}
	cmd.Env = append(cmd.Environ(), environ(c, in)...)
	cmd.WaitDelay = r.waitDelay

	usePTY := c.PTY && out.IsDecorated()
	var stream io.ReadCloser
	if usePTY {
		cmd.Env = append(cmd.Env, "TERM=xterm-256color")
		f, err := pty.StartWithSize(cmd, &r.size)
		if err != nil {
			return fmt.Errorf("start %s on pty: %w", c.Name, err)
		}
		stream = f
	} else {
		pr, pw, err := os.Pipe()
		if err != nil {
			return fmt.Errorf("start %s: %w", c.Name, err)
		}
		cmd.Stdout, cmd.Stderr = pw, pw
		err = cmd.Start()
		pw.Close()
		if err != nil {
			pr.Close()
			return fmt.Errorf("start %s: %w", c.Name, err)
		}
		stream = pr
	}
	defer stream.Close()

	r.logger.Debug("process started", "command", c.Name, "pid", cmd.Process.Pid, "pty", usePTY)
	writeErr := r.copyLines(stream, out, cancel)
	err := cmd.Wait()
	r.logger.Debug("process exited", "command", c.Name, "error", err)

	if writeErr != nil {
		return writeErr
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Command: c.Name, Code: ee.ExitCode(), Err: err}
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", c.Name, err)
	}
	return nil
}

// copyLines writes every line of stream to out, escaped so that the command's
// text is never read as style tags. Lines are cut as output.SplitLines does.
// When a write fails the command is stopped and the rest of its output
// discarded.
func (r *Runner) copyLines(stream io.Reader, out *output.Output, stop func()) error {
	var (
		writeErr error
		pending  []byte
		lines    []string
	)
	write := func(line string) {
		if writeErr != nil {
			return
		}
		if werr := out.Writeln(formatter.Escape(line)); werr != nil {
			writeErr = werr
			stop()
		}
	}
	chunk := make([]byte, 32*1024)
	for {
		n, err := stream.Read(chunk)
		if n > 0 && writeErr == nil {
			lines, pending = output.SplitLines(append(pending, chunk[:n]...))
			for _, line := range lines {
				write(line)
			}
		}
		if err != nil {
			if len(pending) > 0 {
				write(strings.TrimSuffix(string(pending), "\r"))
			}
			// A pty reports EIO once the child side is closed.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				r.logger.Debug("process output read failed", "error", err)
			}
			return writeErr
		}
	}
}

func (r *Runner) list(out *output.Output) error {
	lines := []string{"<comment>Available commands:</comment>"}
	cmds := r.Commands()
	width := 0
	for _, c := range cmds {
		width = max(width, len(c.Name))
	}
	for _, c := range cmds {
		lines = append(lines, fmt.Sprintf("  <info>%-*s</info>  %s", width, c.Name, formatter.Escape(c.Description)))
	}
	for _, l := range lines {
		if err := out.Writeln(l); err != nil {
			return err
		}
	}
	return nil
}

// environ returns the configured variables followed by one variable per
// request option. A bare option is set to "1".
func environ(c ProcessConfig, in *input.Input) []string {
	var env []string
	for _, k := range slices.Sorted(maps.Keys(c.Environment)) {
		env = append(env, k+"="+c.Environment[k])
	}
	for _, opt := range in.Options() {
		name, value, ok := strings.Cut(strings.TrimLeft(opt, "-"), "=")
		if !ok {
			value = "1"
		}
		if key := envName(name); key != "" {
			env = append(env, EnvOptionPrefix+key+"="+value)
		}
	}
	return env
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}
