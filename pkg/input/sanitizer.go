package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxTokenSize is 4KB per token.
	DefaultMaxTokenSize = 4096
	// EnvMaxTokenSize overrides DefaultMaxTokenSize.
	EnvMaxTokenSize = "CONSOLEHTTP_MAX_TOKEN_SIZE"
)

var (
	ErrTokenTooLarge = errors.New("token exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("token contains invalid UTF-8 sequences")
	ErrInvalidEscape = errors.New("token contains an invalid URL escape")
)

// Sanitize enforces the size limit, validates UTF-8 and strips control
// characters other than tab, newline and carriage return. A limit <= 0 selects
// the default.
func Sanitize(token string, limit int) (string, error) {
	if limit <= 0 {
		limit = maxTokenSize()
	}
	if len(token) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTokenTooLarge, len(token), limit)
	}
	if !utf8.ValidString(token) {
		return "", ErrInvalidUTF8
	}

	if !strings.ContainsFunc(token, isUnsafeControl) {
		return token, nil
	}
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxTokenSize() int {
	if val := os.Getenv(EnvMaxTokenSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxTokenSize
}
