package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/Abhijitam01/drawr/internal/camera"
	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

// Cursor is a collaborator pointer in world space.
type Cursor struct {
	UserID string
	Name   string
	At     domain.Point
}

// Overlay is everything drawn on the interactive layer for one frame.
type Overlay struct {
	Selection *domain.Shape
	Draft     *domain.Shape
	TextEdit  *domain.Shape
	Cursors   []Cursor
}

// RenderInteractive clears the overlay layer and redraws it from scratch.
func (p *Pipeline) RenderInteractive(ov Overlay, cam camera.Camera) error {
	dc := p.interactive
	dc.Identity()
	dc.Clear()
	setCamera(dc, cam)
	defer dc.Identity()

	z := cam.Zoom
	if ov.Draft != nil {
		if err := drawShape(dc, previewStyle(*ov.Draft), z); err != nil {
			return err
		}
	}
	if ov.TextEdit != nil {
		if err := drawTextEdit(dc, *ov.TextEdit, z); err != nil {
			return err
		}
	}
	if ov.Selection != nil {
		if err := drawSelection(dc, *ov.Selection, z); err != nil {
			return err
		}
	}
	for _, c := range ov.Cursors {
		if err := drawCursor(dc, c, z); err != nil {
			return err
		}
	}
	return nil
}

func previewStyle(s domain.Shape) domain.Shape {
	s.Style.Stroke = PreviewColor
	s.Style.StrokeWidth = previewWidth
	s.Style.StrokeStyle = domain.StrokeSolid
	s.Style.BackgroundColor = domain.NoFill
	s.Style.Opacity = 100
	return s
}

func selectionStroke(dc *gg.Context, z float64) {
	setColor(dc, SelectionColor, 1)
	dc.SetLineWidth(1 / z)
	dc.SetDash(5/z, 5/z)
	dc.SetLineJoin(gg.LineJoinMiter)
	dc.SetLineCap(gg.LineCapButt)
}

func drawSelection(dc *gg.Context, s domain.Shape, z float64) error {
	pad := selectionPadding / z
	selectionStroke(dc, z)
	if c, ok := s.Geom.(domain.Circle); ok {
		dc.DrawCircle(c.CenterX, c.CenterY, math.Abs(c.Radius)+pad)
	} else {
		b := geometry.Bounds(s).Pad(pad)
		dc.DrawRectangle(b.MinX, b.MinY, b.Width(), b.Height())
	}
	if err := dc.Stroke(); err != nil {
		return err
	}
	dc.ClearDash()

	r := handleRadius / z
	for _, h := range geometry.ResizeHandles(s) {
		dc.DrawCircle(h.Point.X, h.Point.Y, r)
		dc.SetRGBA(1, 1, 1, 1)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setColor(dc, SelectionColor, 1)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// drawTextEdit shows the edit buffer with a dashed caret box around it.
func drawTextEdit(dc *gg.Context, s domain.Shape, z float64) error {
	t, ok := s.Geom.(domain.Text)
	if !ok {
		return nil
	}
	drawText(dc, t, s.Style, z)
	b := geometry.Bounds(s).Pad(selectionPadding / z)
	if b.Width() < 2*geometry.ReferenceFontSize {
		b.MaxX = b.MinX + 2*geometry.ReferenceFontSize
	}
	selectionStroke(dc, z)
	dc.DrawRectangle(b.MinX, b.MinY, b.Width(), b.Height())
	err := dc.Stroke()
	dc.ClearDash()
	return err
}

// drawCursor draws the pointer triangle and a name label next to it. Sizes
// are divided by zoom so the glyph stays the same on screen.
func drawCursor(dc *gg.Context, c Cursor, z float64) error {
	col := CollaboratorColor(c.UserID)
	x, y := c.At.X, c.At.Y
	dc.MoveTo(x, y)
	dc.LineTo(x+10/z, y+15/z)
	dc.LineTo(x+15/z, y+10/z)
	dc.ClosePath()
	dc.SetRGBA(col.R, col.G, col.B, 1)
	if err := dc.Fill(); err != nil {
		return err
	}

	if c.Name == "" {
		return nil
	}
	face := geometry.Face(cursorLabelSize)
	if face == nil {
		return nil
	}
	dc.SetFont(face)
	lx, ly := dc.TransformPoint(x+15/z, y+25/z)
	dc.DrawString(c.Name, lx, ly)
	return nil
}
