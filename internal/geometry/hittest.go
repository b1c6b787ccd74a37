package geometry

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
)

const (
	// HitTolerance is the pick distance in screen pixels.
	HitTolerance = 8.0
	// HandleRadius is the handle pick radius in screen pixels.
	HandleRadius = 10.0
	// ViewportPadding is the world-space margin used when culling.
	ViewportPadding = 50.0
)

func threshold(px, zoom float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	return px / zoom
}

// HitTest reports whether p (world space) picks s at the given zoom. The
// tolerance is constant in screen pixels.
func HitTest(p domain.Point, s domain.Shape, zoom float64) bool {
	t := threshold(HitTolerance, zoom)
	switch g := s.Geom.(type) {
	case domain.Rect:
		return boxHit(p, Box(g.X, g.Y, g.Width, g.Height), t, s.Style.Filled())
	case domain.Diamond:
		return boxHit(p, Box(g.X, g.Y, g.Width, g.Height), t, s.Style.Filled())
	case domain.Circle:
		return math.Hypot(p.X-g.CenterX, p.Y-g.CenterY) <= math.Abs(g.Radius)
	case domain.Arrow:
		return DistToSegment(p, domain.Point{X: g.StartX, Y: g.StartY}, domain.Point{X: g.EndX, Y: g.EndY}) < t
	case domain.Line:
		return DistToSegment(p, domain.Point{X: g.StartX, Y: g.StartY}, domain.Point{X: g.EndX, Y: g.EndY}) < t
	case domain.Pencil:
		for _, q := range g.Points {
			if math.Hypot(p.X-q.X, p.Y-q.Y) < t {
				return true
			}
		}
		return false
	case domain.Text:
		return Bounds(s).Pad(t).Contains(p)
	default:
		return false
	}
}

// boxHit is a border-proximity test: the point must lie within t of one of
// the edges. Beyond a corner the distance to that corner counts. Filled
// boxes also accept interior points.
func boxHit(p domain.Point, b AABB, t float64, filled bool) bool {
	if !b.Pad(t).Contains(p) {
		return false
	}
	dx := math.Max(math.Max(b.MinX-p.X, p.X-b.MaxX), 0)
	dy := math.Max(math.Max(b.MinY-p.Y, p.Y-b.MaxY), 0)
	if dx > 0 && dy > 0 {
		return math.Hypot(dx, dy) <= t
	}
	if filled {
		return true
	}
	return math.Abs(p.X-b.MinX) <= t ||
		math.Abs(p.X-b.MaxX) <= t ||
		math.Abs(p.Y-b.MinY) <= t ||
		math.Abs(p.Y-b.MaxY) <= t
}

// DistToSegment is the distance from p to the segment ab.
func DistToSegment(p, a, b domain.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// ViewportIntersects reports whether bounds, padded by ViewportPadding,
// overlaps the viewport.
func ViewportIntersects(bounds, viewport AABB) bool {
	return bounds.Pad(ViewportPadding).Intersects(viewport)
}
