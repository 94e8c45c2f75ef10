package state

import (
	"fmt"
)

// Layout is the orientation used when the output surface is split from the
// request view.
type Layout string

const (
	LayoutSideBySide Layout = "side-by-side"
	LayoutStacked    Layout = "stacked"
)

// ParseLayout maps user input onto a Layout. Accepted values are
// vsplit, v, vertical (side by side) and hsplit, h, horizontal (stacked),
// matched exactly.
func ParseLayout(value string) (Layout, error) {
	switch value {
	case "vsplit", "v", "vertical":
		return LayoutSideBySide, nil
	case "hsplit", "h", "horizontal":
		return LayoutStacked, nil
	default:
		return "", fmt.Errorf("invalid layout %q (use vsplit, v, vertical, hsplit, h or horizontal)", value)
	}
}

func (l Layout) String() string {
	return string(l)
}

// Orientation returns the split keyword for the layout.
func (l Layout) Orientation() string {
	if l == LayoutStacked {
		return "horizontal"
	}
	return "vertical"
}
