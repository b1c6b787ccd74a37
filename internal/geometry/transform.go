package geometry

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// Translate returns a copy of s moved by (dx, dy).
func Translate(s domain.Shape, dx, dy float64) domain.Shape {
	out := s.Clone()
	switch g := out.Geom.(type) {
	case domain.Rect:
		g.X += dx
		g.Y += dy
		out.Geom = g
	case domain.Diamond:
		g.X += dx
		g.Y += dy
		out.Geom = g
	case domain.Circle:
		g.CenterX += dx
		g.CenterY += dy
		out.Geom = g
	case domain.Arrow:
		g.StartX, g.StartY, g.EndX, g.EndY = g.StartX+dx, g.StartY+dy, g.EndX+dx, g.EndY+dy
		out.Geom = g
	case domain.Line:
		g.StartX, g.StartY, g.EndX, g.EndY = g.StartX+dx, g.StartY+dy, g.EndX+dx, g.EndY+dy
		out.Geom = g
	case domain.Pencil:
		for i := range g.Points {
			g.Points[i].X += dx
			g.Points[i].Y += dy
		}
		out.Geom = g
	case domain.Text:
		g.X += dx
		g.Y += dy
		out.Geom = g
	}
	return out
}

// Resize derives a new shape from origin with handle h dragged to pointer.
// The edge opposite the handle stays fixed; inverted boxes are allowed.
func Resize(origin domain.Shape, h HandleID, pointer domain.Point) domain.Shape {
	out := origin.Clone()
	switch g := out.Geom.(type) {
	case domain.Rect:
		g.X, g.Y, g.Width, g.Height = resizeBox(g.X, g.Y, g.Width, g.Height, h, pointer)
		out.Geom = g
	case domain.Diamond:
		g.X, g.Y, g.Width, g.Height = resizeBox(g.X, g.Y, g.Width, g.Height, h, pointer)
		out.Geom = g
	case domain.Circle:
		g.Radius = math.Hypot(pointer.X-g.CenterX, pointer.Y-g.CenterY)
		out.Geom = g
	case domain.Arrow:
		g.StartX, g.StartY, g.EndX, g.EndY = moveEndpoint(g.StartX, g.StartY, g.EndX, g.EndY, h, pointer)
		out.Geom = g
	case domain.Line:
		g.StartX, g.StartY, g.EndX, g.EndY = moveEndpoint(g.StartX, g.StartY, g.EndX, g.EndY, h, pointer)
		out.Geom = g
	}
	return out
}

func resizeBox(x, y, w, h float64, handle HandleID, p domain.Point) (nx, ny, nw, nh float64) {
	nx, ny, nw, nh = x, y, w, h
	top, bottom, left, right := handle.edges()
	if top {
		ny = p.Y
		nh = y + h - p.Y
	}
	if bottom {
		nh = p.Y - y
	}
	if left {
		nx = p.X
		nw = x + w - p.X
	}
	if right {
		nw = p.X - x
	}
	return nx, ny, nw, nh
}

func moveEndpoint(x1, y1, x2, y2 float64, handle HandleID, p domain.Point) (float64, float64, float64, float64) {
	switch handle {
	case HandleStart:
		return p.X, p.Y, x2, y2
	case HandleEnd:
		return x1, y1, p.X, p.Y
	}
	return x1, y1, x2, y2
}
