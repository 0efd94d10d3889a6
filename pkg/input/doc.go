// Package input models the invocation of a console application: an ordered
// list of argv-style tokens built from an HTTP request path and query string.
//
// The URL /run/greet/world?--no-value&--value=1 becomes the arguments
// [greet world] and the options --no-value and --value=1. Options come first in
// the token list, so an application sees them before its positional arguments.
package input
