package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/restmd/packages/http"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatReport(report *Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if report.Source != "" {
		fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+report.Source))
	}

	for _, r := range report.Requests {
		var symbol string
		switch {
		case http.IsServerError(r.StatusCode):
			symbol = red("✗")
		case http.IsClientError(r.StatusCode):
			symbol = yellow("!")
		case http.IsSuccess(r.StatusCode):
			symbol = green("✓")
		case r.StatusCode > 0:
			symbol = cyan("→")
		default:
			symbol = cyan("•")
		}

		status := r.StatusLine
		if status == "" {
			status = "no status line"
		}
		fmt.Fprintf(f.writer, "  %s #%d %s %s %s\n", symbol, r.Number, r.Request, status, cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))

		if r.ExitCode != 0 {
			fmt.Fprintf(f.writer, "    %s exit status %d\n", red("→"), r.ExitCode)
			if r.Stderr != "" {
				fmt.Fprintf(f.writer, "      %s\n", r.Stderr)
			}
		}

		if f.verbose {
			fmt.Fprintf(f.writer, "    Command: %s\n", r.Command)
			if r.ContentTag != "" {
				fmt.Fprintf(f.writer, "    Content: %s\n", r.ContentTag)
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Requests: %d\n", len(report.Requests))
	fmt.Fprintf(f.writer, "Time:     %dms\n", report.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
}

// FormatStatus prints a session status message, red when it reports an error.
func (f *ConsoleFormatter) FormatStatus(status string, failed bool) {
	if failed {
		fmt.Fprintln(f.writer, color.New(color.FgRed).Sprint(status))
		return
	}
	fmt.Fprintln(f.writer, color.New(color.FgGreen).Sprint(status))
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("restmd"), version)
}
