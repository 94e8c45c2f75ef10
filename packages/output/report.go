package output

import "time"

// Report summarizes one executed batch for the console and JSON formatters.
type Report struct {
	BatchID  string
	Source   string
	Requests []RequestReport
	Duration time.Duration
}

// RequestReport is a single executed request.
type RequestReport struct {
	Number     int
	Request    string // request line of the block, e.g. "GET https://example.com"
	Command    string
	StatusLine string
	StatusCode int // 0 when headers were not captured
	ContentTag string
	Headers    *string
	Body       string
	ExitCode   int
	Stderr     string
	Duration   time.Duration
}
