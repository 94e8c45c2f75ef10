package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Bindings
	}{
		{
			name:     "simple declaration",
			input:    "@host = https://example.com",
			expected: Bindings{{Name: "host", Value: "https://example.com"}},
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "   @token   =   abc123   ",
			expected: Bindings{{Name: "token", Value: "abc123"}},
		},
		{
			name:     "value containing equals",
			input:    "@query = a=1&b=2",
			expected: Bindings{{Name: "query", Value: "a=1&b=2"}},
		},
		{
			name:     "sigil without equals dropped",
			input:    "@broken\n@ok = 1",
			expected: Bindings{{Name: "ok", Value: "1"}},
		},
		{
			name:  "duplicates kept in order",
			input: "@a = 1\n@b = 2\n@a = 3",
			expected: Bindings{
				{Name: "a", Value: "1"},
				{Name: "b", Value: "2"},
				{Name: "a", Value: "3"},
			},
		},
		{
			name:     "non declaration lines ignored",
			input:    "GET https://example.com\nAccept: */*\n# @name = comment\n\n{\"a\": \"@b=c\"}",
			expected: nil,
		},
		{
			name:     "empty value allowed",
			input:    "@empty =",
			expected: Bindings{{Name: "empty", Value: ""}},
		},
		{
			name:     "crlf line endings",
			input:    "@a = 1\r\n@b = 2\r\n",
			expected: Bindings{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	input := "@host = https://example.com\n@token = a=b\n@host = http://localhost"

	first := Extract(input)
	second := Extract(first.String())

	assert.Equal(t, first, second)
}

func TestBindings_Lookup(t *testing.T) {
	b := Bindings{
		{Name: "a", Value: "1"},
		{Name: "a", Value: "2"},
	}

	v, ok := b.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = b.Lookup("missing")
	assert.False(t, ok)
}

func TestBindings_Environ(t *testing.T) {
	b := Bindings{{Name: "host", Value: "a=b"}, {Name: "token", Value: ""}}
	assert.Equal(t, []string{"host=a=b", "token="}, b.Environ())
	assert.Empty(t, Bindings(nil).Environ())
}

func TestMerge(t *testing.T) {
	dotenv := Bindings{{Name: "host", Value: "from-env"}}
	buffer := Bindings{{Name: "host", Value: "from-buffer"}}

	merged := Merge(dotenv, buffer)

	assert.Len(t, merged, 2)
	v, _ := merged.Lookup("host")
	assert.Equal(t, "from-buffer", v)
	assert.Equal(t, map[string]string{"host": "from-buffer"}, merged.Map())
}
