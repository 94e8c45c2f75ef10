package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Batch    string        `json:"batch"`
	Source   string        `json:"source,omitempty"`
	Requests []JSONRequest `json:"requests"`
	Error    string        `json:"error,omitempty"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

// JSONRequest represents a single executed request
type JSONRequest struct {
	Number     int     `json:"number"`
	Request    string  `json:"request"`
	Command    string  `json:"command"`
	StatusCode int     `json:"statusCode,omitempty"`
	Status     string  `json:"status,omitempty"`
	ContentTag string  `json:"contentTag"`
	Headers    *string `json:"headers,omitempty"`
	Body       string  `json:"body"`
	ExitCode   int     `json:"exitCode"`
	Stderr     string  `json:"stderr,omitempty"`
	Duration   float64 `json:"duration"`
}

// JSONFormatter formats batch reports as JSON
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatReport(report *Report) error {
	out := JSONOutput{
		Batch:    report.BatchID,
		Source:   report.Source,
		Requests: make([]JSONRequest, 0, len(report.Requests)),
		Duration: float64(report.Duration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	for _, r := range report.Requests {
		out.Requests = append(out.Requests, JSONRequest{
			Number:     r.Number,
			Request:    r.Request,
			Command:    r.Command,
			StatusCode: r.StatusCode,
			Status:     r.StatusLine,
			ContentTag: r.ContentTag,
			Headers:    r.Headers,
			Body:       r.Body,
			ExitCode:   r.ExitCode,
			Stderr:     r.Stderr,
			Duration:   float64(r.Duration.Milliseconds()),
		})
	}

	return f.encode(out)
}

// FormatError writes a report carrying only the error.
func (f *JSONFormatter) FormatError(err error) error {
	return f.encode(JSONOutput{
		Requests: []JSONRequest{},
		Error:    err.Error(),
		Time:     time.Now().Format(time.RFC3339),
	})
}

func (f *JSONFormatter) encode(out JSONOutput) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
