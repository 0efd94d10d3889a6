// Package formatter renders the style-tag markup console applications write
// (<info>done</info>, <fg=red;options=bold>failed</>) and provides the HTML
// decorator that transcodes rendered lines for a browser.
package formatter
