package formatter

import "errors"

// ErrStyleNotFound is returned by Style for names that were never registered.
var ErrStyleNotFound = errors.New("style not found")

// Formatter resolves style-tag markup in a message to its rendered form.
type Formatter interface {
	// Format renders msg. Decorated formatters emit styling, others plain text.
	Format(msg string) (string, error)

	SetDecorated(decorated bool)
	IsDecorated() bool

	// SetStyle registers (or replaces) a named style usable as <name>...</name>.
	SetStyle(name string, style *Style)
	HasStyle(name string) bool
	Style(name string) (*Style, error)
}
