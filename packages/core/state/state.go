package state

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// DefaultTimeoutMs is the subprocess deadline used until changed.
	DefaultTimeoutMs = 30000
	// DefaultLayout is the split used for a fresh output surface.
	DefaultLayout = LayoutSideBySide
)

// MaxTimeoutSeconds is the largest deadline a time.Duration can hold.
const MaxTimeoutSeconds int64 = math.MaxInt64 / int64(time.Second)

// State is a snapshot of the execution preferences and counters.
type State struct {
	OutputTarget   string // empty when no output surface has been created
	TimeoutMs      int
	Layout         Layout
	IncludeHeaders bool
	RequestCount   int
}

// New returns the initial state.
func New() State {
	return State{
		TimeoutMs:      DefaultTimeoutMs,
		Layout:         DefaultLayout,
		IncludeHeaders: true,
	}
}

// HasOutputTarget reports whether an output surface has been recorded.
func (s State) HasOutputTarget() bool {
	return s.OutputTarget != ""
}

// Timeout returns the deadline as a duration.
func (s State) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

func (s State) WithOutputTarget(id string) State {
	s.OutputTarget = id
	return s
}

func (s State) WithTimeoutMs(ms int) State {
	s.TimeoutMs = ms
	return s
}

func (s State) WithLayout(l Layout) State {
	s.Layout = l
	return s
}

func (s State) WithIncludeHeaders(include bool) State {
	s.IncludeHeaders = include
	return s
}

// Advance returns a copy with the request counter moved forward by n.
func (s State) Advance(n int) State {
	s.RequestCount += n
	return s
}

// Validate checks the invariants of a state value.
func (s State) Validate() error {
	if s.TimeoutMs <= 0 {
		return fmt.Errorf("timeout must be positive, got %dms", s.TimeoutMs)
	}
	if int64(s.TimeoutMs) > MaxTimeoutSeconds*1000 || s.Timeout() <= 0 {
		return fmt.Errorf("timeout must be at most %d seconds, got %dms", MaxTimeoutSeconds, s.TimeoutMs)
	}
	if s.Layout != LayoutSideBySide && s.Layout != LayoutStacked {
		return fmt.Errorf("unknown layout %q", s.Layout)
	}
	if s.RequestCount < 0 {
		return fmt.Errorf("request count must not be negative, got %d", s.RequestCount)
	}
	return nil
}

// Store owns the current State and serializes replacements.
type Store struct {
	mu      sync.Mutex
	current State
}

// NewStore creates a store seeded with initial. An invalid seed falls back
// to New().
func NewStore(initial State) *Store {
	if initial.Validate() != nil {
		initial = New()
	}
	return &Store{current: initial}
}

// Load returns the current snapshot.
func (s *Store) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update replaces the state with the result of fn. fn runs under the store
// lock and receives the latest snapshot; if it returns an error, or the new
// value fails validation, the state is left untouched.
func (s *Store) Update(fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current)
	if err != nil {
		return s.current, err
	}
	if err := next.Validate(); err != nil {
		return s.current, err
	}

	s.current = next
	return next, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process-wide store, creating it on first access.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = NewStore(New())
	})
	return defaultStore
}
