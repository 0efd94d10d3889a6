// Package theme defines the color themes used to render escape-coded output as HTML.
//
// A Theme binds the sixteen basic terminal colors to CSS values and derives a
// stylesheet from them. The same Theme is used for the document preamble and for
// the inline styles of every converted line, so both always agree.
package theme
