// Package http serves console applications over HTTP with chi.
//
// GET /run/<args...>?<options> builds an invocation from the URL, runs the
// application and streams the resulting HTML document, one flush per line.
// The exit status of the run is sent in the X-Exit-Code trailer.
package http
