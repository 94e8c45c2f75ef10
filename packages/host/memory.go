package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/restmd/packages/core/state"
)

// Memory is an in-process Editor.
type Memory struct {
	mu         sync.Mutex
	text       string
	selections []string
	surfaces   map[string]*MemorySurface
	splits     []state.Layout
	next       int
}

func NewMemory() *Memory {
	return &Memory{surfaces: make(map[string]*MemorySurface)}
}

// Open replaces the active buffer and its selections.
func (m *Memory) Open(text string, selections ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.selections = selections
}

// Close drops the active buffer.
func (m *Memory) Close() {
	m.Open("")
}

func (m *Memory) ActiveView() (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.text == "" && len(m.selections) == 0 {
		return nil, ErrNoActiveView
	}
	return NewStaticView(m.text, m.selections...), nil
}

func (m *Memory) OutputSurface(id string) (Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.surfaces[id]; ok {
		return s, nil
	}
	m.next++
	s := &MemorySurface{id: fmt.Sprintf("output-%d", m.next)}
	m.surfaces[s.id] = s
	return s, nil
}

func (m *Memory) SurfaceExists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.surfaces[id]
	return ok
}

func (m *Memory) Split(layout state.Layout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.splits = append(m.splits, layout)
	return nil
}

// RemoveSurface forgets a surface, as if its window was closed.
func (m *Memory) RemoveSurface(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.surfaces, id)
}

// Surface returns a surface by ID without creating one.
func (m *Memory) Surface(id string) (*MemorySurface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surfaces[id]
	return s, ok
}

// Splits returns the layouts passed to Split so far.
func (m *Memory) Splits() []state.Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]state.Layout, len(m.splits))
	copy(out, m.splits)
	return out
}

// MemorySurface accumulates appended text.
type MemorySurface struct {
	mu      sync.Mutex
	id      string
	content strings.Builder
}

func (s *MemorySurface) ID() string {
	return s.id
}

func (s *MemorySurface) Append(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content.WriteString(text)
	return nil
}

func (s *MemorySurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content.Reset()
	return nil
}

// Content returns everything appended since the last Clear.
func (s *MemorySurface) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.String()
}
