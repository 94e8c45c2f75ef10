package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
	"github.com/abdul-hamid-achik/restmd/packages/core/runner"
	"github.com/tidwall/gjson"
)

// DefaultExecTimeout bounds a converter run when no timeout is configured.
const DefaultExecTimeout = 30 * time.Second

// InputRunner runs a command with data on stdin.
type InputRunner interface {
	RunInput(ctx context.Context, command, input string, timeout time.Duration) (*runner.Result, error)
}

// Exec delegates translation to an external converter command.
//
// The converter receives {"selections": [...], "variables": [...],
// "includeHeaders": bool} on stdin and must print a JSON array with one
// command string per selection.
type Exec struct {
	command   string
	runner    InputRunner
	timeout   time.Duration
	timeoutFn func() time.Duration
}

// ExecOption is a functional option for Exec.
type ExecOption func(*Exec)

func WithRunner(r InputRunner) ExecOption {
	return func(e *Exec) {
		e.runner = r
	}
}

func WithTimeout(d time.Duration) ExecOption {
	return func(e *Exec) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithTimeoutFunc reads the converter deadline on every call, so a timeout
// changed during a session applies to the next translation. Non-positive
// values fall back to the fixed timeout.
func WithTimeoutFunc(fn func() time.Duration) ExecOption {
	return func(e *Exec) {
		e.timeoutFn = fn
	}
}

func NewExec(command string, opts ...ExecOption) *Exec {
	e := &Exec{
		command: command,
		timeout: DefaultExecTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = runner.NewProcessRunner()
	}
	return e
}

type execRequest struct {
	Selections     []string     `json:"selections"`
	Variables      env.Bindings `json:"variables"`
	IncludeHeaders bool         `json:"includeHeaders"`
}

func (e *Exec) Translate(ctx context.Context, selections []string, vars env.Bindings, includeHeaders bool) ([]string, error) {
	if strings.TrimSpace(e.command) == "" {
		return nil, fmt.Errorf("no converter command configured")
	}
	if vars == nil {
		vars = env.Bindings{}
	}

	payload, err := json.Marshal(execRequest{
		Selections:     selections,
		Variables:      vars,
		IncludeHeaders: includeHeaders,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding converter input: %w", err)
	}

	timeout := e.timeout
	if e.timeoutFn != nil {
		if d := e.timeoutFn(); d > 0 {
			timeout = d
		}
	}

	result, err := e.runner.RunInput(ctx, e.command, string(payload), timeout)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("converter exited with status %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return decodeCommands(result.Stdout)
}

func decodeCommands(out string) ([]string, error) {
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("converter output is not valid JSON")
	}
	parsed := gjson.Parse(out)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("converter output must be a JSON array of strings")
	}

	items := parsed.Array()
	commands := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("converter output item %d is not a string", i)
		}
		commands = append(commands, item.String())
	}
	return commands, nil
}
