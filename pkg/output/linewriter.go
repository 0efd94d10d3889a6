package output

import (
	"bytes"
	"strings"

	"github.com/aretw0/consolehttp/pkg/transcode"
)

var eraseLine = []byte(transcode.EraseLine)

// SplitLines cuts buf into the lines that can be written now and the bytes
// still waiting for a newline. A carriage return before the newline is
// dropped. A pending partial line is also released up to its last erase-line
// sequence, which stands in for the newline, so terminal redraws reach the
// client without waiting for the end of the line.
func SplitLines(buf []byte) (lines []string, rest []byte) {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(string(buf[:idx]), "\r"))
		buf = buf[idx+1:]
	}
	if idx := bytes.LastIndex(buf, eraseLine); idx >= 0 {
		lines = append(lines, string(buf[:idx]))
		buf = buf[idx+len(eraseLine):]
	}
	return lines, buf
}

// LineWriter is an io.Writer that splits what it receives into lines, as
// SplitLines does, and writes each line to an Output as it arrives. A
// trailing partial line is written by Close.
type LineWriter struct {
	out  *Output
	mode Mode
	buf  []byte
}

// NewLineWriter creates a LineWriter writing lines in the given mode.
func NewLineWriter(out *Output, mode Mode) *LineWriter {
	return &LineWriter{out: out, mode: mode}
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	lines, rest := SplitLines(append(w.buf, p...))
	w.buf = rest
	for _, line := range lines {
		if err := w.out.WritelnMode(line, w.mode, VerbosityNormal); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close writes any buffered partial line.
func (w *LineWriter) Close() error {
	if len(w.buf) == 0 {
		return nil
	}
	line := strings.TrimSuffix(string(w.buf), "\r")
	w.buf = nil
	return w.out.WritelnMode(line, w.mode, VerbosityNormal)
}
