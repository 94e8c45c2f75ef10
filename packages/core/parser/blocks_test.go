package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `@host = api.example.com

### List users
GET https://{{host}}/users

### Create user
POST https://{{host}}/users
Content-Type: application/json

{"name": "Ann"}

###
# nothing here yet
`

func TestSplit(t *testing.T) {
	blocks := Split(sample)
	require.Len(t, blocks, 4)

	assert.Equal(t, "", blocks[0].Name)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 2, blocks[0].EndLine)
	assert.Equal(t, "@host = api.example.com\n", blocks[0].Text)
	assert.False(t, blocks[0].HasRequest())

	assert.Equal(t, "List users", blocks[1].Name)
	assert.Equal(t, 3, blocks[1].StartLine)
	assert.Equal(t, 5, blocks[1].EndLine)
	assert.Equal(t, "### List users\nGET https://{{host}}/users\n", blocks[1].Text)
	assert.True(t, blocks[1].HasRequest())

	assert.Equal(t, "Create user", blocks[2].Name)
	assert.Equal(t, 6, blocks[2].StartLine)
	assert.Equal(t, 11, blocks[2].EndLine)
	assert.Contains(t, blocks[2].Text, `{"name": "Ann"}`)

	assert.Equal(t, "", blocks[3].Name)
	assert.Equal(t, 12, blocks[3].StartLine)
	assert.False(t, blocks[3].HasRequest())
}

func TestSplit_EdgeCases(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Split(""))
	})

	t.Run("no separators", func(t *testing.T) {
		blocks := Split("GET https://x")
		require.Len(t, blocks, 1)
		assert.Equal(t, 1, blocks[0].StartLine)
		assert.Equal(t, 1, blocks[0].EndLine)
	})

	t.Run("separator on first line", func(t *testing.T) {
		blocks := Split("### one\nGET https://x\n### two\nGET https://y")
		require.Len(t, blocks, 2)
		assert.Equal(t, "one", blocks[0].Name)
		assert.Equal(t, "two", blocks[1].Name)
	})

	t.Run("crlf input", func(t *testing.T) {
		blocks := Split("### a\r\nGET https://x\r\n### b\r\nGET https://y")
		require.Len(t, blocks, 2)
		assert.Equal(t, "### a\nGET https://x", blocks[0].Text)
	})
}

func TestRequests(t *testing.T) {
	blocks := Requests(sample)
	require.Len(t, blocks, 2)
	assert.Equal(t, "List users", blocks[0].Name)
	assert.Equal(t, "Create user", blocks[1].Name)
}

func TestBlockAt(t *testing.T) {
	tests := []struct {
		line     int
		wantName string
		wantOK   bool
	}{
		{line: 1, wantName: "", wantOK: true},
		{line: 4, wantName: "List users", wantOK: true},
		{line: 7, wantName: "Create user", wantOK: true},
		{line: 11, wantName: "Create user", wantOK: true},
		{line: 0, wantOK: false},
		{line: 99, wantOK: false},
	}

	for _, tt := range tests {
		b, ok := BlockAt(sample, tt.line)
		assert.Equal(t, tt.wantOK, ok, "line %d", tt.line)
		if tt.wantOK {
			assert.Equal(t, tt.wantName, b.Name, "line %d", tt.line)
		}
	}
}

func TestRequestLine(t *testing.T) {
	assert.Equal(t, "GET https://x", RequestLine("### a\n# c\n@v = 1\n\n  GET https://x  \nAccept: */*"))
	assert.Equal(t, "", RequestLine("### a\n// only comments\n"))
	assert.Equal(t, "POST https://x", RequestLine("POST https://x\r\n"))
}
