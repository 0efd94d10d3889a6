package formatter

import (
	"fmt"

	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/aretw0/consolehttp/pkg/transcode"
)

// HTMLFormatter decorates a Formatter so that, when decorated, every rendered
// message is transcoded from escape codes to HTML markup.
//
// Style bookkeeping and the decoration flag belong to the wrapped formatter;
// HTMLFormatter only intercepts Format.
type HTMLFormatter struct {
	inner     Formatter
	converter transcode.Converter
	theme     *theme.Theme
}

var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter wraps inner. A nil theme selects theme.Default.
func NewHTMLFormatter(inner Formatter, converter transcode.Converter, th *theme.Theme) *HTMLFormatter {
	if th == nil {
		th = theme.Default()
	}
	return &HTMLFormatter{inner: inner, converter: converter, theme: th}
}

// Format renders msg with the wrapped formatter, then, if decorated, rewrites
// its escape codes and converts them to markup.
func (f *HTMLFormatter) Format(msg string) (string, error) {
	out, err := f.inner.Format(msg)
	if err != nil {
		return "", err
	}
	if !f.IsDecorated() {
		return out, nil
	}
	html, err := f.converter.Convert(transcode.TranslateEscapes(out), f.theme)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return html, nil
}

// Unwrap returns the wrapped formatter.
func (f *HTMLFormatter) Unwrap() Formatter { return f.inner }

func (f *HTMLFormatter) SetDecorated(decorated bool) { f.inner.SetDecorated(decorated) }
func (f *HTMLFormatter) IsDecorated() bool { return f.inner.IsDecorated() }
func (f *HTMLFormatter) SetStyle(name string, style *Style) { f.inner.SetStyle(name, style) }
func (f *HTMLFormatter) HasStyle(name string) bool { return f.inner.HasStyle(name) }
func (f *HTMLFormatter) Style(name string) (*Style, error) { return f.inner.Style(name) }
