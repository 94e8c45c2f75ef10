package host

import (
	"errors"

	"github.com/abdul-hamid-achik/restmd/packages/core/state"
)

// ErrNoActiveView is returned when there is no buffer to read requests from.
var ErrNoActiveView = errors.New("no active view")

// View is the buffer requests are read from.
type View interface {
	// Text returns the full buffer.
	Text() string
	// PrimarySelection returns the main selection, possibly empty.
	PrimarySelection() string
	// Selections returns every selection in order.
	Selections() []string
}

// Surface is a document results are appended to.
type Surface interface {
	ID() string
	Append(text string) error
	Clear() error
}

// Editor is the set of host capabilities used by a session.
type Editor interface {
	ActiveView() (View, error)
	// OutputSurface returns the surface with the given ID, or a new one
	// when id is empty or unknown.
	OutputSurface(id string) (Surface, error)
	SurfaceExists(id string) bool
	// Split arranges the output next to the request buffer.
	Split(layout state.Layout) error
}

// StaticView is a View over fixed values.
type StaticView struct {
	text       string
	selections []string
}

func NewStaticView(text string, selections ...string) *StaticView {
	return &StaticView{text: text, selections: selections}
}

func (v *StaticView) Text() string {
	return v.text
}

func (v *StaticView) PrimarySelection() string {
	if len(v.selections) == 0 {
		return ""
	}
	return v.selections[0]
}

func (v *StaticView) Selections() []string {
	out := make([]string, len(v.selections))
	copy(out, v.selections)
	return out
}
