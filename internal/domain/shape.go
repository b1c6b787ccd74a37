package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the shape discriminant. It never changes after creation.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindDiamond Kind = "diamond"
	KindArrow   Kind = "arrow"
	KindLine    Kind = "line"
	KindPencil  Kind = "pencil"
	KindText    Kind = "text"
)

var (
	ErrUnknownKind = errors.New("domain: unknown shape kind")
	ErrMissingID   = errors.New("domain: shape id is required")
)

// Point is a world-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry is the closed set of per-kind geometric payloads.
// Only the types in this file implement it.
type Geometry interface {
	Kind() Kind
	isGeometry()
}

// Rect is anchored at (X, Y); Width and Height may be negative after a resize.
type Rect struct {
	X, Y, Width, Height float64
}

// Diamond shares the rect box layout; vertices sit on the edge midpoints.
type Diamond struct {
	X, Y, Width, Height float64
}

type Circle struct {
	CenterX, CenterY, Radius float64
}

type Arrow struct {
	StartX, StartY, EndX, EndY float64
}

type Line struct {
	StartX, StartY, EndX, EndY float64
}

type Pencil struct {
	Points []Point
}

// Text is anchored at its baseline origin.
type Text struct {
	X, Y    float64
	Content string
}

func (Rect) Kind() Kind    { return KindRect }
func (Diamond) Kind() Kind { return KindDiamond }
func (Circle) Kind() Kind  { return KindCircle }
func (Arrow) Kind() Kind   { return KindArrow }
func (Line) Kind() Kind    { return KindLine }
func (Pencil) Kind() Kind  { return KindPencil }
func (Text) Kind() Kind    { return KindText }

func (Rect) isGeometry()    {}
func (Diamond) isGeometry() {}
func (Circle) isGeometry()  {}
func (Arrow) isGeometry()   {}
func (Line) isGeometry()    {}
func (Pencil) isGeometry()  {}
func (Text) isGeometry()    {}

// Shape is one element of a scene. The ID is generated client-side and is
// stable for the shape's lifetime.
type Shape struct {
	ID    string
	Style Style
	Geom  Geometry
}

// Kind returns the discriminant of the shape's geometry, or "" for a zero Shape.
func (s Shape) Kind() Kind {
	if s.Geom == nil {
		return ""
	}
	return s.Geom.Kind()
}

// Clone returns a deep copy; pencil point slices are not shared.
func (s Shape) Clone() Shape {
	if p, ok := s.Geom.(Pencil); ok && p.Points != nil {
		pts := make([]Point, len(p.Points))
		copy(pts, p.Points)
		s.Geom = Pencil{Points: pts}
	}
	return s
}

// Validate checks the invariants every persisted shape must satisfy.
func (s Shape) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	if s.Geom == nil {
		return ErrUnknownKind
	}
	return nil
}

// IsDegenerate reports geometry that is dropped instead of persisted:
// pencil strokes with fewer than two points and empty text.
func (s Shape) IsDegenerate() bool {
	switch g := s.Geom.(type) {
	case Pencil:
		return len(g.Points) < 2
	case Text:
		return g.Content == ""
	default:
		return false
	}
}

// --- wire format ---

// The JSON layout is flat: kind-specific fields sit next to id/type/style.

type shapeHeader struct {
	ID    string `json:"id"`
	Type  Kind   `json:"type"`
	Style Style  `json:"style"`
}

type boxJSON struct {
	shapeHeader
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type circleJSON struct {
	shapeHeader
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

type segmentJSON struct {
	shapeHeader
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

type pencilJSON struct {
	shapeHeader
	Points []Point `json:"points"`
}

type textJSON struct {
	shapeHeader
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// flatShape accepts any kind on decode.
type flatShape struct {
	ID      string          `json:"id"`
	Type    Kind            `json:"type"`
	Style   json.RawMessage `json:"style"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	CenterX float64         `json:"centerX"`
	CenterY float64         `json:"centerY"`
	Radius  float64         `json:"radius"`
	StartX  float64         `json:"startX"`
	StartY  float64         `json:"startY"`
	EndX    float64         `json:"endX"`
	EndY    float64         `json:"endY"`
	Points  []Point         `json:"points"`
	Text    string          `json:"text"`
}

// MarshalJSON emits only the fields that belong to the shape's kind.
func (s Shape) MarshalJSON() ([]byte, error) {
	h := shapeHeader{ID: s.ID, Type: s.Kind(), Style: s.Style}
	switch g := s.Geom.(type) {
	case Rect:
		return json.Marshal(boxJSON{h, g.X, g.Y, g.Width, g.Height})
	case Diamond:
		return json.Marshal(boxJSON{h, g.X, g.Y, g.Width, g.Height})
	case Circle:
		return json.Marshal(circleJSON{h, g.CenterX, g.CenterY, g.Radius})
	case Arrow:
		return json.Marshal(segmentJSON{h, g.StartX, g.StartY, g.EndX, g.EndY})
	case Line:
		return json.Marshal(segmentJSON{h, g.StartX, g.StartY, g.EndX, g.EndY})
	case Pencil:
		pts := g.Points
		if pts == nil {
			pts = []Point{}
		}
		return json.Marshal(pencilJSON{h, pts})
	case Text:
		return json.Marshal(textJSON{h, g.X, g.Y, g.Content})
	default:
		return nil, fmt.Errorf("marshal shape %q: %w", s.ID, ErrUnknownKind)
	}
}

// UnmarshalJSON decodes any kind. Style fields that are absent keep their defaults.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var f flatShape
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode shape: %w", err)
	}

	style := DefaultStyle()
	if len(f.Style) > 0 && string(f.Style) != "null" {
		if err := json.Unmarshal(f.Style, &style); err != nil {
			return fmt.Errorf("decode shape %q style: %w", f.ID, err)
		}
	}

	var geom Geometry
	switch f.Type {
	case KindRect:
		geom = Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
	case KindDiamond:
		geom = Diamond{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
	case KindCircle:
		geom = Circle{CenterX: f.CenterX, CenterY: f.CenterY, Radius: f.Radius}
	case KindArrow:
		geom = Arrow{StartX: f.StartX, StartY: f.StartY, EndX: f.EndX, EndY: f.EndY}
	case KindLine:
		geom = Line{StartX: f.StartX, StartY: f.StartY, EndX: f.EndX, EndY: f.EndY}
	case KindPencil:
		geom = Pencil{Points: f.Points}
	case KindText:
		geom = Text{X: f.X, Y: f.Y, Content: f.Text}
	default:
		return fmt.Errorf("decode shape %q type %q: %w", f.ID, f.Type, ErrUnknownKind)
	}

	*s = Shape{ID: f.ID, Style: style, Geom: geom}
	return nil
}
