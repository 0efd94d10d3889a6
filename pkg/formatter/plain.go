package formatter

import "html"

// PlainHTMLFormatter decorates a Formatter for undecorated HTML documents: the
// wrapped formatter's plain text is HTML-escaped, so application text always
// renders as text and never as markup.
type PlainHTMLFormatter struct {
	inner Formatter
}

var _ Formatter = (*PlainHTMLFormatter)(nil)

// NewPlainHTMLFormatter wraps inner.
func NewPlainHTMLFormatter(inner Formatter) *PlainHTMLFormatter {
	return &PlainHTMLFormatter{inner: inner}
}

// Format renders msg with the wrapped formatter and escapes the result.
func (f *PlainHTMLFormatter) Format(msg string) (string, error) {
	out, err := f.inner.Format(msg)
	if err != nil {
		return "", err
	}
	return html.EscapeString(out), nil
}

// Unwrap returns the wrapped formatter.
func (f *PlainHTMLFormatter) Unwrap() Formatter { return f.inner }

func (f *PlainHTMLFormatter) SetDecorated(decorated bool) { f.inner.SetDecorated(decorated) }
func (f *PlainHTMLFormatter) IsDecorated() bool { return f.inner.IsDecorated() }
func (f *PlainHTMLFormatter) SetStyle(name string, style *Style) { f.inner.SetStyle(name, style) }
func (f *PlainHTMLFormatter) HasStyle(name string) bool { return f.inner.HasStyle(name) }
func (f *PlainHTMLFormatter) Style(name string) (*Style, error) { return f.inner.Style(name) }
