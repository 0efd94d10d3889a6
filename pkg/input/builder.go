package input

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Builder turns URL path segments and a raw query string into an Input.
type Builder struct {
	defaults     []string
	maxTokenSize int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefaultOptions prepends tokens to every Input, before the query options.
func WithDefaultOptions(tokens ...string) BuilderOption {
	return func(b *Builder) {
		b.defaults = append(b.defaults, tokens...)
	}
}

// WithMaxTokenSize sets the size limit of a single decoded token.
func WithMaxTokenSize(n int) BuilderOption {
	return func(b *Builder) {
		b.maxTokenSize = n
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create builds the invocation tokens: default options, then the non-empty
// "&"-separated parts of rawQuery, then args. Every token is URL-decoded
// ("+" is a space) and sanitized.
func (b *Builder) Create(args []string, rawQuery string) (*Input, error) {
	var query []string
	for part := range strings.SplitSeq(rawQuery, "&") {
		if part != "" {
			query = append(query, part)
		}
	}

	raw := slices.Concat(b.defaults, query, args)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		decoded, err := url.QueryUnescape(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEscape, tok)
		}
		clean, err := Sanitize(decoded, b.maxTokenSize)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, clean)
	}
	return &Input{tokens: tokens}, nil
}

// SplitPath splits an escaped URL path into its non-empty segments.
func SplitPath(escapedPath string) []string {
	var segs []string
	for seg := range strings.SplitSeq(escapedPath, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
