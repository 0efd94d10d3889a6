// Package output writes a session's lines to its sink.
//
// Every write is followed by a flush: the sink never holds a line back waiting
// for a fuller buffer. Frame produces the HTML preamble and closing tags that turn
// the line stream into a single document.
package output
