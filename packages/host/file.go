package host

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/abdul-hamid-achik/restmd/packages/core/parser"
	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/alecthomas/chroma/quick"
)

// TerminalSurfaceID identifies the terminal surface of a File host.
const TerminalSurfaceID = "terminal"

// File is an Editor backed by a .http file. Selections are the request
// blocks containing the chosen lines, or every request block when no line
// was chosen. Output goes to a Markdown file when one is configured and to
// a terminal writer otherwise.
type File struct {
	path   string
	lines  []int
	output string
	out    io.Writer
	color  bool

	mu       sync.Mutex
	surfaces map[string]Surface
	layout   state.Layout
}

// FileOption is a functional option for File.
type FileOption func(*File)

// WithLines selects the request blocks containing these 1-based lines.
func WithLines(lines ...int) FileOption {
	return func(f *File) {
		f.lines = append(f.lines, lines...)
	}
}

// WithOutputFile appends results to a Markdown document at path.
func WithOutputFile(path string) FileOption {
	return func(f *File) {
		f.output = path
	}
}

// WithWriter sets the terminal writer and whether to highlight Markdown.
func WithWriter(w io.Writer, color bool) FileOption {
	return func(f *File) {
		f.out = w
		f.color = color
	}
}

func NewFile(path string, opts ...FileOption) *File {
	f := &File{
		path:     path,
		out:      os.Stdout,
		surfaces: make(map[string]Surface),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the request file path.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// Open switches to another request file and clears the line selection.
func (f *File) Open(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = path
	f.lines = nil
}

// Select replaces the selected lines. No lines selects every request block.
func (f *File) Select(lines ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append([]int(nil), lines...)
}

// ActiveView reads the request file. It is re-read on every call so edits
// between executions are picked up.
func (f *File) ActiveView() (View, error) {
	f.mu.Lock()
	path := f.path
	lines := append([]int(nil), f.lines...)
	f.mu.Unlock()

	if path == "" {
		return nil, ErrNoActiveView
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	text := string(data)

	var selections []string
	if len(lines) == 0 {
		for _, b := range parser.Requests(text) {
			selections = append(selections, b.Text)
		}
	} else {
		for _, line := range lines {
			b, ok := parser.BlockAt(text, line)
			if !ok {
				return nil, fmt.Errorf("line %d is outside %s", line, path)
			}
			if !b.HasRequest() {
				// blank selections are rejected by the pipeline
				selections = append(selections, "")
				continue
			}
			selections = append(selections, b.Text)
		}
	}

	return NewStaticView(text, selections...), nil
}

func (f *File) OutputSurface(id string) (Surface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.surfaces[id]; ok {
		return s, nil
	}

	var s Surface
	if f.output != "" {
		s = &MarkdownFile{path: f.output}
	} else {
		s = &Terminal{w: f.out, color: f.color}
	}
	f.surfaces[s.ID()] = s
	return s, nil
}

func (f *File) SurfaceExists(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.surfaces[id]
	return ok
}

// Split records the layout. Files and terminals have no windows to arrange.
func (f *File) Split(layout state.Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.layout = layout
	return nil
}

// Layout returns the layout of the last Split.
func (f *File) Layout() state.Layout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layout
}

// MarkdownFile appends results to a document on disk.
type MarkdownFile struct {
	mu   sync.Mutex
	path string
}

func (m *MarkdownFile) ID() string {
	return m.path
}

func (m *MarkdownFile) Append(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func (m *MarkdownFile) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.WriteFile(m.path, nil, 0644); err != nil {
		return fmt.Errorf("failed to clear output file: %w", err)
	}
	return nil
}

// Terminal writes results to a writer, highlighted as Markdown when color
// is enabled.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func (t *Terminal) ID() string {
	return TerminalSurfaceID
}

func (t *Terminal) Append(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.color {
		if err := quick.Highlight(t.w, text, "markdown", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(t.w, text)
	return err
}

// Clear is a no-op; terminal scrollback is not ours to erase.
func (t *Terminal) Clear() error {
	return nil
}
