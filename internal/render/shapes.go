package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

// drawShape paints s in world coordinates; dc already carries the camera
// transform.
func drawShape(dc *gg.Context, s domain.Shape, zoom float64) error {
	if t, ok := s.Geom.(domain.Text); ok {
		drawText(dc, t, s.Style, zoom)
		return nil
	}

	trace, closed := tracer(dc, s)
	if trace == nil {
		return nil
	}
	if closed && s.Style.Filled() {
		if err := fill(dc, s, zoom, trace); err != nil {
			return err
		}
	}

	applyStroke(dc, s.Style, zoom)
	trace()
	if err := dc.Stroke(); err != nil {
		return err
	}
	if a, ok := s.Geom.(domain.Arrow); ok {
		return drawArrowHead(dc, a, zoom)
	}
	return nil
}

// tracer returns a function that appends the outline of s to the current
// path, and whether the outline is closed.
func tracer(dc *gg.Context, s domain.Shape) (func(), bool) {
	switch g := s.Geom.(type) {
	case domain.Rect:
		b := geometry.Box(g.X, g.Y, g.Width, g.Height)
		if s.Style.Roundness == domain.RoundnessRound {
			r := math.Min(b.Width(), b.Height()) * 0.1
			return func() { dc.DrawRoundedRectangle(b.MinX, b.MinY, b.Width(), b.Height(), r) }, true
		}
		return func() { dc.DrawRectangle(b.MinX, b.MinY, b.Width(), b.Height()) }, true
	case domain.Diamond:
		return func() {
			dc.MoveTo(g.X+g.Width/2, g.Y)
			dc.LineTo(g.X+g.Width, g.Y+g.Height/2)
			dc.LineTo(g.X+g.Width/2, g.Y+g.Height)
			dc.LineTo(g.X, g.Y+g.Height/2)
			dc.ClosePath()
		}, true
	case domain.Circle:
		return func() { dc.DrawCircle(g.CenterX, g.CenterY, math.Abs(g.Radius)) }, true
	case domain.Arrow:
		return func() {
			dc.MoveTo(g.StartX, g.StartY)
			dc.LineTo(g.EndX, g.EndY)
		}, false
	case domain.Line:
		return func() {
			dc.MoveTo(g.StartX, g.StartY)
			dc.LineTo(g.EndX, g.EndY)
		}, false
	case domain.Pencil:
		if len(g.Points) < 2 {
			return nil, false
		}
		return func() {
			dc.MoveTo(g.Points[0].X, g.Points[0].Y)
			for _, p := range g.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
		}, false
	}
	return nil, false
}

// fill paints the interior. Hachure and cross-hatch are diagonal strokes
// clipped to the outline.
func fill(dc *gg.Context, s domain.Shape, zoom float64, trace func()) error {
	setColor(dc, s.Style.BackgroundColor, s.Style.Alpha())
	trace()
	if s.Style.FillStyle == domain.FillSolid {
		return dc.Fill()
	}

	dc.Clip()
	defer dc.ResetClip()

	dc.ClearDash()
	dc.SetLineWidth(math.Max(1, s.Style.StrokeWidth/2) / zoom)
	gap := math.Max(4, s.Style.StrokeWidth*4)
	b := geometry.Bounds(s)
	h := b.Height()
	for x := b.MinX - h; x <= b.MaxX; x += gap {
		dc.MoveTo(x, b.MaxY)
		dc.LineTo(x+h, b.MinY)
		if s.Style.FillStyle == domain.FillCrossHatch {
			dc.MoveTo(x, b.MinY)
			dc.LineTo(x+h, b.MaxY)
		}
	}
	return dc.Stroke()
}

func drawArrowHead(dc *gg.Context, a domain.Arrow, zoom float64) error {
	angle := math.Atan2(a.EndY-a.StartY, a.EndX-a.StartX)
	head := arrowHeadLength / zoom
	for _, side := range []float64{-math.Pi / 6, math.Pi / 6} {
		dc.MoveTo(a.EndX, a.EndY)
		dc.LineTo(a.EndX-head*math.Cos(angle+side), a.EndY-head*math.Sin(angle+side))
	}
	return dc.Stroke()
}

// drawText renders at the reference size scaled by zoom. DrawString ignores
// the context transform, so the baseline origin is transformed here.
func drawText(dc *gg.Context, t domain.Text, st domain.Style, zoom float64) {
	if t.Content == "" {
		return
	}
	face := geometry.Face(faceSize(geometry.ReferenceFontSize * zoom))
	if face == nil {
		return
	}
	dc.SetFont(face)
	setColor(dc, st.Stroke, st.Alpha())
	x, y := dc.TransformPoint(t.X, t.Y)
	dc.DrawString(t.Content, x, y)
}
