package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
	"github.com/abdul-hamid-achik/restmd/packages/core/runner"
	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/abdul-hamid-achik/restmd/packages/logging"
)

// Status is the outcome of an operation.
type Status struct {
	Message string
	Err     error
	// Batch is set by successful execute operations.
	Batch *runner.Batch
}

func (s Status) String() string {
	return s.Message
}

// Failed reports whether the operation ended in an error.
func (s Status) Failed() bool {
	return s.Err != nil
}

func errorStatus(err error) Status {
	return Status{Message: "Error: " + err.Error(), Err: err}
}

func okStatus(format string, args ...any) Status {
	return Status{Message: fmt.Sprintf(format, args...)}
}

type Session struct {
	editor host.Editor
	runner *runner.Runner
	store  *state.Store
	vars   env.Bindings
	logger *slog.Logger

	// guards output surface resolution
	mu sync.Mutex
}

type Option func(*Session)

// WithVariables sets bindings placed before the buffer's own declarations,
// e.g. values loaded from a .env file.
func WithVariables(vars env.Bindings) Option {
	return func(s *Session) {
		s.vars = vars
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(editor host.Editor, r *runner.Runner, opts ...Option) *Session {
	s := &Session{
		editor: editor,
		runner: r,
		store:  r.Store(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current execution state.
func (s *Session) State() state.State {
	return s.store.Load()
}

// ExecutePrimary runs the primary selection of the active view.
func (s *Session) ExecutePrimary(ctx context.Context) Status {
	return s.execute(ctx, func(v host.View) []string {
		return []string{v.PrimarySelection()}
	})
}

// ExecuteAll runs every selection of the active view in order.
func (s *Session) ExecuteAll(ctx context.Context) Status {
	return s.execute(ctx, func(v host.View) []string {
		return v.Selections()
	})
}

// ExecuteBuffer runs the whole buffer as a single request.
func (s *Session) ExecuteBuffer(ctx context.Context) Status {
	return s.execute(ctx, func(v host.View) []string {
		return []string{v.Text()}
	})
}

func (s *Session) execute(ctx context.Context, selectionsOf func(host.View) []string) (status Status) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("operation panicked", "panic", rec)
			status = errorStatus(&runner.ExecError{Err: fmt.Errorf("%v", rec)})
		}
	}()

	view, err := s.editor.ActiveView()
	if err != nil {
		return errorStatus(err)
	}

	surface, err := s.outputSurface()
	if err != nil {
		return errorStatus(fmt.Errorf("output surface: %w", err))
	}

	vars := env.Merge(s.vars, env.Extract(view.Text()))
	batch, err := s.runner.Execute(ctx, selectionsOf(view), vars)
	if err != nil {
		s.logger.Warn("execution failed", "error", err)
		return errorStatus(err)
	}

	if err := surface.Append(batch.Markdown); err != nil {
		return errorStatus(fmt.Errorf("writing output: %w", err))
	}

	return Status{
		Message: fmt.Sprintf("Executed %d request(s)", batch.Len()),
		Batch:   batch,
	}
}

// outputSurface returns the live output surface, creating one and
// arranging the layout when the state has none.
func (s *Session) outputSurface() (host.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.store.Load()
	if cur.HasOutputTarget() && s.editor.SurfaceExists(cur.OutputTarget) {
		return s.editor.OutputSurface(cur.OutputTarget)
	}

	surface, err := s.editor.OutputSurface("")
	if err != nil {
		return nil, err
	}
	if err := s.editor.Split(cur.Layout); err != nil {
		return nil, err
	}
	if _, err := s.store.Update(func(st state.State) (state.State, error) {
		return st.WithOutputTarget(surface.ID()), nil
	}); err != nil {
		return nil, err
	}
	s.logger.Debug("output surface created", "id", surface.ID(), "layout", cur.Layout)
	return surface, nil
}

// Timeout reports the current subprocess deadline.
func (s *Session) Timeout() Status {
	return okStatus("Timeout is %s seconds", seconds(s.store.Load()))
}

// SetTimeout sets the subprocess deadline. seconds must be positive.
func (s *Session) SetTimeout(secs int) Status {
	if secs <= 0 {
		return errorStatus(fmt.Errorf("timeout must be a positive number of seconds, got %d", secs))
	}
	if int64(secs) > state.MaxTimeoutSeconds {
		return errorStatus(fmt.Errorf("timeout must be at most %d seconds, got %d", state.MaxTimeoutSeconds, secs))
	}
	next, err := s.store.Update(func(st state.State) (state.State, error) {
		return st.WithTimeoutMs(secs * 1000), nil
	})
	if err != nil {
		return errorStatus(err)
	}
	return okStatus("Timeout set to %s seconds", seconds(next))
}

// SetTimeoutString parses value as whole seconds and sets the deadline.
func (s *Session) SetTimeoutString(value string) Status {
	secs, err := strconv.Atoi(value)
	if err != nil {
		return errorStatus(fmt.Errorf("invalid timeout %q: must be a whole number of seconds", value))
	}
	return s.SetTimeout(secs)
}

// Layout reports the current output orientation.
func (s *Session) Layout() Status {
	return okStatus("Layout is %s", s.store.Load().Layout.Orientation())
}

// SetLayout accepts vsplit, v, vertical, hsplit, h or horizontal. Other
// values are rejected and the state is left as it was.
func (s *Session) SetLayout(value string) Status {
	layout, err := state.ParseLayout(value)
	if err != nil {
		return errorStatus(err)
	}
	if _, err := s.store.Update(func(st state.State) (state.State, error) {
		return st.WithLayout(layout), nil
	}); err != nil {
		return errorStatus(err)
	}
	return okStatus("Layout set to %s", layout.Orientation())
}

// ToggleHeaders flips whether response headers are captured and rendered.
func (s *Session) ToggleHeaders() Status {
	next, err := s.store.Update(func(st state.State) (state.State, error) {
		return st.WithIncludeHeaders(!st.IncludeHeaders), nil
	})
	if err != nil {
		return errorStatus(err)
	}
	if next.IncludeHeaders {
		return okStatus("Response headers enabled")
	}
	return okStatus("Response headers disabled")
}

// Stats reports latency statistics for the requests run so far.
func (s *Session) Stats() Status {
	return okStatus("%s", s.runner.Stats().Summary())
}

// ClearOutput empties the live output surface. Request numbering is not
// reset.
func (s *Session) ClearOutput() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.store.Load()
	if !cur.HasOutputTarget() || !s.editor.SurfaceExists(cur.OutputTarget) {
		return okStatus("No output to clear")
	}
	surface, err := s.editor.OutputSurface(cur.OutputTarget)
	if err != nil {
		return errorStatus(err)
	}
	if err := surface.Clear(); err != nil {
		return errorStatus(err)
	}
	return okStatus("Output cleared")
}

func seconds(st state.State) string {
	return strconv.FormatFloat(st.Timeout().Seconds(), 'f', -1, 64)
}
