package runner

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
	// DefaultMaxInputSize is 4KB, far above any command or search.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides the default for sanitizers without a MaxSize.
	EnvMaxInputSize = "RISEFLOW_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer bounds and cleans text typed by staff before it reaches a
// session: commands, search text, node ids and link fragments.
type Sanitizer struct {
	// MaxSize is the limit in bytes. Zero falls back to EnvMaxInputSize,
	// then DefaultMaxInputSize.
	MaxSize int
}

// Clean rejects oversized or malformed input and drops control characters
// (ANSI escapes, NUL, BEL) except tab, newline and carriage return.
func (s Sanitizer) Clean(input string) (string, error) {
	if limit := s.limit(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	return strings.Map(keepRune, input), nil
}

func (s Sanitizer) limit() int {
	if s.MaxSize > 0 {
		return s.MaxSize
	}
	if size, err := strconv.Atoi(os.Getenv(EnvMaxInputSize)); err == nil && size > 0 {
		return size
	}
	return DefaultMaxInputSize
}

func keepRune(r rune) rune {
	switch {
	case r == '\n', r == '\t', r == '\r':
		return r
	case unicode.IsControl(r):
		return -1
	}
	return r
}

// SanitizeInput cleans input with the default limit.
func SanitizeInput(input string) (string, error) {
	return Sanitizer{}.Clean(input)
}
