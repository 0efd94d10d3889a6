/*
Package consolehttp serves console applications over HTTP as live HTML documents.

A console program writes lines the way it would to a terminal, style tags and
raw escape codes included. The Adapter runs it for one request and streams every
line to the client as soon as it is written, transcoded to HTML when the output
is decorated, inside a document that is opened before the first line and closed
after the last, whether the run succeeds or not.

# Usage

	adapter := consolehttp.New(consolehttp.WithTheme(theme.Solarized()))

	in, err := input.NewBuilder().Create(input.SplitPath(r.URL.EscapedPath()), r.URL.RawQuery)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = adapter.Run(r.Context(), myApp, in, sink, settings...)

The pkg/adapters/http package wires this into a chi router, including the
response headers and the unbuffered streaming environment.

# Decoration

A session decorates when the invocation carries --ansi, does not when it
carries --no-ansi, and otherwise follows the sink capability. --ansi wins when
both are present. Only options before a "--" terminator count.

# Environment

Settings needed while streaming (headers, write deadlines) are acquired as a
scope with Acquire: on failure the settings already applied are rolled back, and
on release each one is restored in reverse order. Settings flagged as output
dependent are left alone once output reached the client.
*/
package consolehttp
