// Package geometry holds the pure functions behind hit-testing, culling and
// resize handles. Nothing here keeps state apart from the cached font faces
// used to measure text.
package geometry

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// AABB is an axis-aligned box in world coordinates. Min is always <= Max.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Box builds a normalized box from an origin and a possibly negative size.
func Box(x, y, w, h float64) AABB {
	return AABB{
		MinX: math.Min(x, x+w),
		MinY: math.Min(y, y+h),
		MaxX: math.Max(x, x+w),
		MaxY: math.Max(y, y+h),
	}
}

func (b AABB) Width() float64  { return b.MaxX - b.MinX }
func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Pad grows the box by m on every side.
func (b AABB) Pad(m float64) AABB {
	return AABB{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

func (b AABB) Contains(p domain.Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Intersects is the separating-axis overlap test for two boxes.
func (b AABB) Intersects(o AABB) bool {
	return !(b.MaxX < o.MinX || b.MinX > o.MaxX || b.MaxY < o.MinY || b.MinY > o.MaxY)
}

// Union returns the smallest box containing both.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Bounds returns the world-space bounding box of s.
func Bounds(s domain.Shape) AABB {
	switch g := s.Geom.(type) {
	case domain.Rect:
		return Box(g.X, g.Y, g.Width, g.Height)
	case domain.Diamond:
		return Box(g.X, g.Y, g.Width, g.Height)
	case domain.Circle:
		r := math.Abs(g.Radius)
		return AABB{MinX: g.CenterX - r, MinY: g.CenterY - r, MaxX: g.CenterX + r, MaxY: g.CenterY + r}
	case domain.Arrow:
		return segmentBounds(g.StartX, g.StartY, g.EndX, g.EndY)
	case domain.Line:
		return segmentBounds(g.StartX, g.StartY, g.EndX, g.EndY)
	case domain.Pencil:
		return pointsBounds(g.Points)
	case domain.Text:
		w, h := MeasureText(g.Content, ReferenceFontSize)
		// (X, Y) is the baseline origin, the glyph box extends upwards.
		return AABB{MinX: g.X, MinY: g.Y - h, MaxX: g.X + w, MaxY: g.Y}
	default:
		return AABB{}
	}
}

// SceneBounds is the union of all shape bounds, ok is false for an empty scene.
func SceneBounds(shapes []domain.Shape) (AABB, bool) {
	if len(shapes) == 0 {
		return AABB{}, false
	}
	b := Bounds(shapes[0])
	for _, s := range shapes[1:] {
		b = b.Union(Bounds(s))
	}
	return b, true
}

func segmentBounds(x1, y1, x2, y2 float64) AABB {
	return AABB{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

func pointsBounds(pts []domain.Point) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}
