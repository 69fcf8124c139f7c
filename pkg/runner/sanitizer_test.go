package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", DefaultMaxInputSize - 1, false},
		{"Exact Limit", DefaultMaxInputSize, false},
		{"Over Limit", DefaultMaxInputSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput("/" + strings.Repeat("a", tt.size-1))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Search", "/detention", "/detention"},
		{"Safe Controls", "/late\tclass", "/late\tclass"},
		{"ANSI Code", "/\x1b[31mphone\x1b[0m", "/[31mphone[0m"},
		{"Null Byte", "b\x00", "b"},
		{"Bell", "\x07ct", "ct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("/123456789012")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("/late")
	assert.NoError(t, err)
}

func TestSanitizer_MaxSize(t *testing.T) {
	_, err := Sanitizer{MaxSize: 4}.Clean("/abcdef")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxInputSize, "3")
	got, err := Sanitizer{MaxSize: 8}.Clean("/abcdef")
	require.NoError(t, err, "an explicit size wins over the environment")
	assert.Equal(t, "/abcdef", got)

	_, err = Sanitizer{}.Clean("/abc")
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("/\xbd\xb2\x3d\xbc")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
