package interaction

import "strings"

type Tool string

const (
	ToolSelect  Tool = "select"
	ToolRect    Tool = "rect"
	ToolDiamond Tool = "diamond"
	ToolCircle  Tool = "circle"
	ToolArrow   Tool = "arrow"
	ToolLine    Tool = "line"
	ToolPencil  Tool = "pencil"
	ToolText    Tool = "text"
	ToolEraser  Tool = "eraser"
	ToolClear   Tool = "clear"
)

// Draws reports whether the tool materializes a shape from an anchor drag.
func (t Tool) Draws() bool {
	switch t {
	case ToolRect, ToolDiamond, ToolCircle, ToolArrow, ToolLine, ToolPencil:
		return true
	}
	return false
}

var shortcuts = map[string]Tool{
	"v": ToolSelect,
	"r": ToolRect,
	"d": ToolDiamond,
	"o": ToolCircle,
	"a": ToolArrow,
	"l": ToolLine,
	"p": ToolPencil,
	"t": ToolText,
	"e": ToolEraser,
	"x": ToolClear,
}

// ToolForKey maps a single-letter shortcut to its tool.
func ToolForKey(key string) (Tool, bool) {
	t, ok := shortcuts[strings.ToLower(key)]
	return t, ok
}

type State int

const (
	Idle State = iota
	Panning
	Drawing
	DraggingSelection
	ResizingSelection
	EditingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Drawing:
		return "drawing"
	case DraggingSelection:
		return "dragging"
	case ResizingSelection:
		return "resizing"
	case EditingText:
		return "editing-text"
	default:
		return "unknown"
	}
}
