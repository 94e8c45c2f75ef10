package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
)

var methods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
	"TRACE":   true,
	"CONNECT": true,
}

var variablePattern = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Header is a single request header in declaration order.
type Header struct {
	Name  string
	Value string
}

// Request is one parsed request block.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    string
}

// Substitute replaces {{name}} references with the last binding of that
// name. Unknown references are left as written.
func Substitute(text string, vars env.Bindings) string {
	if len(vars) == 0 {
		return text
	}
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if value, ok := vars.Lookup(name); ok {
			return value
		}
		return match
	})
}

// ParseRequest reads a request block. Comment lines, variable declarations
// and ### separators before the request line are ignored. The request line
// is either "METHOD URL [HTTP/x.y]" or a bare URL, which means GET. Lines
// starting with ? or & directly after it continue the URL. Headers follow
// until the first blank line and everything after that is the body.
func ParseRequest(block string) (*Request, error) {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isComment(line) || strings.HasPrefix(line, env.Sigil) {
			continue
		}
		break
	}
	if i == len(lines) {
		return nil, fmt.Errorf("no request line found")
	}

	req, err := parseRequestLine(strings.TrimSpace(lines[i]))
	if err != nil {
		return nil, err
	}
	i++

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "?") && !strings.HasPrefix(line, "&") {
			break
		}
		req.URL += line
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			break
		}
		if isComment(line) {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		req.Headers = append(req.Headers, Header{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}

	var body []string
	for ; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "###") {
			break
		}
		body = append(body, lines[i])
	}
	req.Body = strings.TrimRight(strings.Join(body, "\n"), " \t\n")

	return req, nil
}

func parseRequestLine(line string) (*Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 1 {
		if !isURL(fields[0]) {
			return nil, fmt.Errorf("invalid request line %q", line)
		}
		return &Request{Method: "GET", URL: fields[0]}, nil
	}

	method := strings.ToUpper(fields[0])
	if !methods[method] {
		return nil, fmt.Errorf("unsupported method %q", fields[0])
	}
	if len(fields) > 3 || (len(fields) == 3 && !strings.HasPrefix(strings.ToUpper(fields[2]), "HTTP/")) {
		return nil, fmt.Errorf("invalid request line %q", line)
	}
	return &Request{Method: method, URL: fields[1]}, nil
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "{{")
}
