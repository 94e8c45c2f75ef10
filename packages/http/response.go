package http

import (
	"strconv"
	"strings"
)

// HeaderSeparator ends the header section of a raw HTTP response.
const HeaderSeparator = "\r\n\r\n"

// DefaultContentTag is used when no known content type is found.
const DefaultContentTag = "text"

// contentTags maps content type fragments to syntax tags. Order matters:
// the first fragment contained in the media type wins.
var contentTags = []struct {
	fragment string
	tag      string
}{
	{"json", "json"},
	{"xml", "xml"},
	{"html", "html"},
	{"javascript", "javascript"},
	{"css", "css"},
	{"yaml", "yaml"},
}

// Response is captured process output split into headers and body.
type Response struct {
	// Headers is nil when headers were not requested. An empty string means
	// headers were requested but no separator was found.
	Headers    *string
	Body       string
	ContentTag string
}

// ParseResponse splits raw output. When withHeaders is false the whole output
// is the body and the tag is always "text".
func ParseResponse(raw string, withHeaders bool) *Response {
	if !withHeaders {
		return &Response{
			Body:       raw,
			ContentTag: DefaultContentTag,
		}
	}

	headers, body, found := strings.Cut(raw, HeaderSeparator)
	if !found {
		headers = ""
		body = raw
	}

	return &Response{
		Headers:    &headers,
		Body:       body,
		ContentTag: ContentTag(headers),
	}
}

// ContentTag derives the syntax tag from a header block.
func ContentTag(headers string) string {
	for _, line := range strings.Split(headers, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), "content-type:") {
			continue
		}

		_, value, _ := strings.Cut(line, ":")
		value = strings.TrimSpace(value)
		mediaType, _, _ := strings.Cut(value, ";")
		mediaType = strings.ToLower(mediaType)

		for _, ct := range contentTags {
			if strings.Contains(mediaType, ct.fragment) {
				return ct.tag
			}
		}
		return DefaultContentTag
	}
	return DefaultContentTag
}

// HasHeaders reports whether a non-empty header block is present.
func (r *Response) HasHeaders() bool {
	return r.Headers != nil && *r.Headers != ""
}

// Header returns the first header value matching key, case-insensitively.
func (r *Response) Header(key string) string {
	if r.Headers == nil {
		return ""
	}
	for _, line := range strings.Split(*r.Headers, "\n") {
		name, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// StatusLine returns the first header line, e.g. "HTTP/1.1 200 OK".
func (r *Response) StatusLine() string {
	if r.Headers == nil {
		return ""
	}
	line, _, _ := strings.Cut(*r.Headers, "\n")
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "HTTP/") {
		return ""
	}
	return line
}

// StatusCode parses the code from the status line, or returns 0.
func (r *Response) StatusCode() int {
	fields := strings.Fields(r.StatusLine())
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// IsSuccess reports a 2xx status code.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

func IsClientError(code int) bool {
	return code >= 400 && code < 500
}

func IsServerError(code int) bool {
	return code >= 500 && code < 600
}
