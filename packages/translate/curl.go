package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
)

// DefaultCurlBinary is the program name placed at the start of each command.
const DefaultCurlBinary = "curl"

// Curl translates request blocks into curl command lines.
type Curl struct {
	binary          string
	followRedirects bool
	insecure        bool
	extraArgs       []string
}

// CurlOption is a functional option for Curl.
type CurlOption func(*Curl)

// WithBinary sets the curl executable, e.g. an absolute path.
func WithBinary(binary string) CurlOption {
	return func(c *Curl) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithFollowRedirects adds -L.
func WithFollowRedirects(follow bool) CurlOption {
	return func(c *Curl) {
		c.followRedirects = follow
	}
}

// WithInsecure adds -k.
func WithInsecure(insecure bool) CurlOption {
	return func(c *Curl) {
		c.insecure = insecure
	}
}

// WithExtraArgs appends raw arguments after the built-in flags. They are
// not quoted.
func WithExtraArgs(args ...string) CurlOption {
	return func(c *Curl) {
		c.extraArgs = append(c.extraArgs, args...)
	}
}

func NewCurl(opts ...CurlOption) *Curl {
	c := &Curl{binary: DefaultCurlBinary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate implements the pipeline translator contract.
func (c *Curl) Translate(ctx context.Context, selections []string, vars env.Bindings, includeHeaders bool) ([]string, error) {
	commands := make([]string, 0, len(selections))
	for i, selection := range selections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cmd, err := c.Command(selection, vars, includeHeaders)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Command builds the curl invocation for a single request block.
func (c *Curl) Command(block string, vars env.Bindings, includeHeaders bool) (string, error) {
	req, err := ParseRequest(Substitute(block, vars))
	if err != nil {
		return "", err
	}
	return c.Build(req, includeHeaders), nil
}

// Build renders a parsed request. HEAD uses -I because curl would otherwise
// wait for a body that never arrives.
func (c *Curl) Build(req *Request, includeHeaders bool) string {
	args := []string{c.binary, "-sS"}

	if req.Method == "HEAD" {
		args = append(args, "-I")
	} else {
		if includeHeaders {
			args = append(args, "-i")
		}
		args = append(args, "-X", req.Method)
	}
	if c.followRedirects {
		args = append(args, "-L")
	}
	if c.insecure {
		args = append(args, "-k")
	}
	args = append(args, c.extraArgs...)

	for _, h := range req.Headers {
		args = append(args, "-H", shellQuote(h.Name+": "+h.Value))
	}
	if req.Body != "" {
		args = append(args, "--data-raw", shellQuote(req.Body))
	}
	args = append(args, shellQuote(req.URL))

	return strings.Join(args, " ")
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
