/*
Package session orchestrates one streamed console run.

A Session owns the output of a single request. Start resolves decoration once,
selects the formatter, and writes the document preamble; every line the
application writes is formatted and flushed before the next is accepted; Close
writes the closing tags exactly once, even when the run failed.

The Manager tracks the sessions currently streaming in a process.
*/
package session
