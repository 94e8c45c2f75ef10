package parser

import (
	"strings"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
)

// Separator starts a new request block.
const Separator = "###"

// Block is a run of lines between separators. A block that begins at a
// separator includes that line.
type Block struct {
	Name      string
	StartLine int
	EndLine   int
	Text      string
}

// HasRequest reports whether the block contains anything besides blank
// lines, comments, separators and variable declarations.
func (b Block) HasRequest() bool {
	return RequestLine(b.Text) != ""
}

// RequestLine returns the first line of text that is not blank, a comment,
// a separator or a variable declaration, trimmed. It is empty when there is
// no such line.
func RequestLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, env.Sigil) {
			continue
		}
		return line
	}
	return ""
}

// Contains reports whether line falls inside the block.
func (b Block) Contains(line int) bool {
	return line >= b.StartLine && line <= b.EndLine
}

// Split breaks text into blocks. Empty input yields no blocks.
func Split(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var blocks []Block
	start := 0
	name := ""
	flush := func(end int) {
		if end <= start {
			return
		}
		blocks = append(blocks, Block{
			Name:      name,
			StartLine: start + 1,
			EndLine:   end,
			Text:      strings.Join(lines[start:end], "\n"),
		})
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, Separator) {
			continue
		}
		flush(i)
		start = i
		name = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	}
	flush(len(lines))

	return blocks
}

// Requests returns only the blocks that hold a request.
func Requests(text string) []Block {
	var result []Block
	for _, b := range Split(text) {
		if b.HasRequest() {
			result = append(result, b)
		}
	}
	return result
}

// BlockAt returns the block containing the given 1-based line.
func BlockAt(text string, line int) (Block, bool) {
	for _, b := range Split(text) {
		if b.Contains(line) {
			return b, true
		}
	}
	return Block{}, false
}
