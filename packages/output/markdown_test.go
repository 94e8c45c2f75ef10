package output

import (
	"testing"

	"github.com/abdul-hamid-achik/restmd/packages/http"
	"github.com/stretchr/testify/assert"
)

func TestMarkdownFormatter_Section(t *testing.T) {
	f := NewMarkdownFormatter()
	resp := http.ParseResponse("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{\"a\":1}", true)

	got := f.Section(1, "curl -sS -i 'https://x/get'", resp)

	expected := "## Request 1\n\n" +
		"```sh\ncurl -sS -i 'https://x/get'\n```\n\n" +
		"### Response\n\n" +
		"```http\nHTTP/1.1 200 OK\r\nContent-Type: application/json\n```\n\n" +
		"```json\n{\"a\":1}\n```\n\n" +
		"---\n\n"
	assert.Equal(t, expected, got)
}

func TestMarkdownFormatter_HeadersOmitted(t *testing.T) {
	f := NewMarkdownFormatter()

	t.Run("headers absent", func(t *testing.T) {
		got := f.Section(3, "cmd", http.ParseResponse("body", false))
		assert.Contains(t, got, "## Request 3\n")
		assert.NotContains(t, got, "```http")
		assert.Contains(t, got, "```text\nbody\n```")
	})

	t.Run("headers empty", func(t *testing.T) {
		got := f.Section(4, "cmd", http.ParseResponse("no separator here", true))
		assert.NotContains(t, got, "```http")
		assert.Contains(t, got, "```text\nno separator here\n```")
	})
}

func TestMarkdownFormatter_FencesContainingBackticks(t *testing.T) {
	f := NewMarkdownFormatter()

	tests := []struct {
		name  string
		body  string
		fence string
	}{
		{"plain", "hello", "```"},
		{"inline code", "use `x` here", "```"},
		{"markdown body", "# Doc\n```go\nfmt.Println()\n```\nend", "````"},
		{"long run", "``````", "```````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Section(1, "cmd", http.ParseResponse(tt.body, false))
			assert.Contains(t, got, tt.fence+"text\n"+tt.body+"\n"+tt.fence+"\n\n---\n\n")
		})
	}
}

func TestMarkdownFormatter_Deterministic(t *testing.T) {
	f := NewMarkdownFormatter()
	resp := http.ParseResponse("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n<p>hi</p>", true)

	first := f.Section(7, "curl x", resp)
	second := f.Section(7, "curl x", resp)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "```html\n<p>hi</p>\n```")
}

func TestMarkdownFormatter_TrailingNewlineBody(t *testing.T) {
	f := NewMarkdownFormatter()
	got := f.Section(1, "cmd", http.ParseResponse("line\n", false))

	assert.Contains(t, got, "```text\nline\n```\n\n---")
}

func TestMarkdownFormatter_PrettyJSON(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{\"a\":1,\"b\":[1,2]}"

	t.Run("enabled", func(t *testing.T) {
		f := NewMarkdownFormatter(WithPrettyJSON(true))
		got := f.Section(1, "cmd", http.ParseResponse(raw, true))
		assert.Contains(t, got, "```json\n{\n  \"a\": 1,\n  \"b\": [1, 2]\n}\n```")
	})

	t.Run("invalid json left untouched", func(t *testing.T) {
		f := NewMarkdownFormatter(WithPrettyJSON(true))
		bad := "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{not json"
		got := f.Section(1, "cmd", http.ParseResponse(bad, true))
		assert.Contains(t, got, "```json\n{not json\n```")
	})

	t.Run("disabled by default", func(t *testing.T) {
		f := NewMarkdownFormatter()
		got := f.Section(1, "cmd", http.ParseResponse(raw, true))
		assert.Contains(t, got, "```json\n{\"a\":1,\"b\":[1,2]}\n```")
	})
}
