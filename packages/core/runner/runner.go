package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
	"github.com/abdul-hamid-achik/restmd/packages/core/parser"
	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/abdul-hamid-achik/restmd/packages/http"
	"github.com/abdul-hamid-achik/restmd/packages/output"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultConcurrency is the default number of concurrent processes in parallel mode
	DefaultConcurrency = 4
)

// Translator turns request blocks into shell command strings, one per
// selection and in the same order.
type Translator interface {
	Translate(ctx context.Context, selections []string, vars env.Bindings, includeHeaders bool) ([]string, error)
}

// Executor runs a single command under a deadline.
type Executor interface {
	Run(ctx context.Context, command string, timeout time.Duration) (*Result, error)
}

type Config struct {
	Parallel    bool
	Concurrency int
	Rate        float64 // max process spawns per second, 0 disables pacing
	PrettyJSON  bool
}

type Runner struct {
	translator Translator
	executor   Executor
	store      *state.Store
	formatter  *output.MarkdownFormatter
	limiter    *rate.Limiter
	stats      *Stats
	config     *Config
	logger     *slog.Logger

	// batches are serialized so request numbers stay contiguous
	batchMu sync.Mutex
}

type Option func(*Runner)

func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithStats(stats *Stats) Option {
	return func(r *Runner) {
		r.stats = stats
	}
}

func NewRunner(translator Translator, store *state.Store, cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if store == nil {
		store = state.Default()
	}

	r := &Runner{
		translator: translator,
		store:      store,
		config:     cfg,
		formatter:  output.NewMarkdownFormatter(output.WithPrettyJSON(cfg.PrettyJSON)),
		stats:      NewStats(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.executor == nil {
		r.executor = NewProcessRunner(WithProcessLogger(r.logger))
	}
	if cfg.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return r
}

// Store returns the state store the runner commits to.
func (r *Runner) Store() *state.Store {
	return r.store
}

// Stats returns the latency collector.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// Batch is the rendered outcome of one successful Execute call.
type Batch struct {
	ID       string
	First    int // number of the first request in the batch
	Sections []*Section
	Markdown string
	Duration time.Duration
}

// Section is one executed request.
type Section struct {
	Number    int
	Selection string
	Command   string
	Result    *Result
	Response  *http.Response
	Markdown  string
}

// Len returns the number of executed requests.
func (b *Batch) Len() int {
	return len(b.Sections)
}

// Report converts the batch for the console and JSON formatters.
func (b *Batch) Report(source string) *output.Report {
	report := &output.Report{
		BatchID:  b.ID,
		Source:   source,
		Duration: b.Duration,
	}
	for _, s := range b.Sections {
		report.Requests = append(report.Requests, output.RequestReport{
			Number:     s.Number,
			Request:    parser.RequestLine(s.Selection),
			Command:    s.Command,
			StatusLine: s.Response.StatusLine(),
			StatusCode: s.Response.StatusCode(),
			ContentTag: s.Response.ContentTag,
			Headers:    s.Response.Headers,
			Body:       s.Response.Body,
			ExitCode:   s.Result.ExitCode,
			Stderr:     strings.TrimSpace(s.Result.Stderr),
			Duration:   s.Result.Duration,
		})
	}
	return report
}

// Execute translates, runs and renders every selection. If any request
// fails the first failure in input order is returned, nothing is rendered
// and the request counter is left unchanged. On success the counter is
// advanced by the batch size exactly once.
func (r *Runner) Execute(ctx context.Context, selections []string, vars env.Bindings) (*Batch, error) {
	if len(selections) == 0 {
		return nil, ErrNoSelections
	}
	for i, selection := range selections {
		if strings.TrimSpace(selection) == "" {
			return nil, &EmptySelectionError{Index: i + 1}
		}
	}

	r.batchMu.Lock()
	defer r.batchMu.Unlock()

	start := time.Now()
	snapshot := r.store.Load()
	batch := &Batch{
		ID:    uuid.NewString(),
		First: snapshot.RequestCount + 1,
	}
	logger := r.logger.With("batch", batch.ID)
	logger.Debug("batch started", "requests", len(selections), "timeout", snapshot.Timeout(), "headers", snapshot.IncludeHeaders)

	commands, err := r.translator.Translate(ctx, selections, vars, snapshot.IncludeHeaders)
	if err != nil {
		return nil, &TranslationError{Err: err}
	}
	if len(commands) != len(selections) {
		return nil, &TranslationError{Err: fmt.Errorf("got %d commands for %d requests", len(commands), len(selections))}
	}

	var results []*Result
	if r.config.Parallel && len(commands) > 1 {
		results, err = r.runParallel(ctx, commands, snapshot.Timeout())
	} else {
		results, err = r.runSequential(ctx, commands, snapshot.Timeout())
	}
	if err != nil {
		logger.Warn("batch aborted", "error", err)
		return nil, err
	}

	var sb strings.Builder
	for i, result := range results {
		resp := http.ParseResponse(result.Stdout, snapshot.IncludeHeaders)
		section := &Section{
			Number:    batch.First + i,
			Selection: selections[i],
			Command:   commands[i],
			Result:    result,
			Response:  resp,
		}
		section.Markdown = r.formatter.Section(section.Number, section.Command, resp)
		sb.WriteString(section.Markdown)
		batch.Sections = append(batch.Sections, section)
	}
	batch.Markdown = sb.String()

	if _, err := r.store.Update(func(cur state.State) (state.State, error) {
		return cur.Advance(len(batch.Sections)), nil
	}); err != nil {
		return nil, fmt.Errorf("advancing request count: %w", err)
	}

	batch.Duration = time.Since(start)
	logger.Info("batch finished", "requests", batch.Len(), "first", batch.First, "duration", batch.Duration)
	return batch, nil
}

// runSequential stops at the first failing command.
func (r *Runner) runSequential(ctx context.Context, commands []string, timeout time.Duration) ([]*Result, error) {
	results := make([]*Result, 0, len(commands))
	for i, command := range commands {
		result, err := r.runOne(ctx, command, timeout)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// runParallel runs commands with bounded concurrency. The first failure
// cancels the rest: queued commands are never spawned and running ones are
// killed. The reported failure is the first by input position among the
// commands that failed on their own.
func (r *Runner) runParallel(ctx context.Context, commands []string, timeout time.Duration) ([]*Result, error) {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	batchCtx, abort := context.WithCancel(ctx)
	defer abort()

	results := make([]*Result, len(commands))
	errs := make([]error, len(commands))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

spawn:
	for i, command := range commands {
		select {
		case sem <- struct{}{}:
		case <-batchCtx.Done():
			break spawn
		}
		if batchCtx.Err() != nil {
			<-sem
			break spawn
		}

		wg.Add(1)
		go func(idx int, cmd string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx], errs[idx] = r.runOne(batchCtx, cmd, timeout)
			if errs[idx] != nil {
				abort()
			}
		}(i, command)
	}

	wg.Wait()

	var aborted error
	for i, err := range errs {
		if err == nil {
			continue
		}
		wrapped := fmt.Errorf("request %d: %w", i+1, err)
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			if aborted == nil {
				aborted = wrapped
			}
			continue
		}
		return nil, wrapped
	}
	if aborted != nil {
		return nil, aborted
	}
	if err := ctx.Err(); err != nil {
		return nil, &ExecError{Err: err}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, command string, timeout time.Duration) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &ExecError{Err: fmt.Errorf("%v", rec)}
		}
	}()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, &ExecError{Err: err}
		}
	}

	start := time.Now()
	result, err = r.executor.Run(ctx, command, timeout)
	if result == nil && err == nil {
		err = &ExecError{Err: fmt.Errorf("no result for %q", command)}
	}
	duration := time.Since(start)
	if result != nil {
		duration = result.Duration
	}
	r.stats.Record(duration, err)
	return result, err
}
