package output

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/restmd/packages/http"
	"github.com/tidwall/gjson"
)

// SectionSeparator closes every rendered request section.
const SectionSeparator = "---"

// MarkdownFormatter renders executed requests as Markdown sections.
// Rendering is deterministic: identical inputs produce identical output.
type MarkdownFormatter struct {
	prettyJSON bool
}

type MarkdownOption func(*MarkdownFormatter)

// WithPrettyJSON re-indents valid JSON bodies.
func WithPrettyJSON(pretty bool) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.prettyJSON = pretty
	}
}

func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Section renders one request/response pair. number is 1-based and already
// offset by the requests executed earlier in the process.
func (f *MarkdownFormatter) Section(number int, command string, resp *http.Response) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Request %d\n\n", number)
	writeFence(&sb, "sh", command)
	sb.WriteString("### Response\n\n")

	if resp.HasHeaders() {
		writeFence(&sb, "http", *resp.Headers)
	}

	writeFence(&sb, resp.ContentTag, f.body(resp))
	sb.WriteString(SectionSeparator)
	sb.WriteString("\n\n")

	return sb.String()
}

func (f *MarkdownFormatter) body(resp *http.Response) string {
	if !f.prettyJSON || resp.ContentTag != "json" || !gjson.Valid(resp.Body) {
		return resp.Body
	}
	return strings.TrimRight(gjson.Get(resp.Body, "@pretty").Raw, "\n")
}

// writeFence wraps content in a code fence longer than any backtick run
// inside it, so the content cannot close the block early.
func writeFence(sb *strings.Builder, tag, content string) {
	fence := strings.Repeat("`", fenceLength(content))
	sb.WriteString(fence)
	sb.WriteString(tag)
	sb.WriteString("\n")
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n\n")
}

func fenceLength(content string) int {
	longest, run := 0, 0
	for _, c := range content {
		if c != '`' {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	if longest < 3 {
		return 3
	}
	return longest + 1
}
