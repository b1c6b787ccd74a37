package geometry

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// HandleID names a resize handle. Box handles combine the edges they move:
// "tl" moves the top and left edges, "tc" only the top edge.
type HandleID string

const (
	HandleTopLeft      HandleID = "tl"
	HandleTopRight     HandleID = "tr"
	HandleBottomLeft   HandleID = "bl"
	HandleBottomRight  HandleID = "br"
	HandleTopCenter    HandleID = "tc"
	HandleBottomCenter HandleID = "bc"
	HandleLeftCenter   HandleID = "lc"
	HandleRightCenter  HandleID = "rc"

	HandleTop    HandleID = "t"
	HandleBottom HandleID = "b"
	HandleLeft   HandleID = "l"
	HandleRight  HandleID = "r"

	HandleStart HandleID = "start"
	HandleEnd   HandleID = "end"
)

type Handle struct {
	ID    HandleID
	Point domain.Point
}

// edges reports which box edges a handle moves.
func (h HandleID) edges() (top, bottom, left, right bool) {
	switch h {
	case HandleTopLeft:
		return true, false, true, false
	case HandleTopRight:
		return true, false, false, true
	case HandleBottomLeft:
		return false, true, true, false
	case HandleBottomRight:
		return false, true, false, true
	case HandleTopCenter:
		return true, false, false, false
	case HandleBottomCenter:
		return false, true, false, false
	case HandleLeftCenter:
		return false, false, true, false
	case HandleRightCenter:
		return false, false, false, true
	}
	return false, false, false, false
}

// ResizeHandles lists the handles of s in draw order. Pencil and text have none.
func ResizeHandles(s domain.Shape) []Handle {
	switch g := s.Geom.(type) {
	case domain.Rect:
		return boxHandles(g.X, g.Y, g.Width, g.Height)
	case domain.Diamond:
		return boxHandles(g.X, g.Y, g.Width, g.Height)
	case domain.Circle:
		return []Handle{
			{HandleTop, domain.Point{X: g.CenterX, Y: g.CenterY - g.Radius}},
			{HandleBottom, domain.Point{X: g.CenterX, Y: g.CenterY + g.Radius}},
			{HandleLeft, domain.Point{X: g.CenterX - g.Radius, Y: g.CenterY}},
			{HandleRight, domain.Point{X: g.CenterX + g.Radius, Y: g.CenterY}},
		}
	case domain.Arrow:
		return segmentHandles(g.StartX, g.StartY, g.EndX, g.EndY)
	case domain.Line:
		return segmentHandles(g.StartX, g.StartY, g.EndX, g.EndY)
	default:
		return nil
	}
}

func boxHandles(x, y, w, h float64) []Handle {
	return []Handle{
		{HandleTopLeft, domain.Point{X: x, Y: y}},
		{HandleTopRight, domain.Point{X: x + w, Y: y}},
		{HandleBottomLeft, domain.Point{X: x, Y: y + h}},
		{HandleBottomRight, domain.Point{X: x + w, Y: y + h}},
		{HandleTopCenter, domain.Point{X: x + w/2, Y: y}},
		{HandleBottomCenter, domain.Point{X: x + w/2, Y: y + h}},
		{HandleLeftCenter, domain.Point{X: x, Y: y + h/2}},
		{HandleRightCenter, domain.Point{X: x + w, Y: y + h/2}},
	}
}

func segmentHandles(x1, y1, x2, y2 float64) []Handle {
	return []Handle{
		{HandleStart, domain.Point{X: x1, Y: y1}},
		{HandleEnd, domain.Point{X: x2, Y: y2}},
	}
}

// HandleAt returns the first handle of s within HandleRadius screen pixels of p.
func HandleAt(p domain.Point, s domain.Shape, zoom float64) (HandleID, bool) {
	r := threshold(HandleRadius, zoom)
	for _, h := range ResizeHandles(s) {
		if math.Hypot(p.X-h.Point.X, p.Y-h.Point.Y) <= r {
			return h.ID, true
		}
	}
	return "", false
}
