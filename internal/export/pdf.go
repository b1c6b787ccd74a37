package export

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
	"github.com/Abhijitam01/drawr/internal/render"
)

const (
	pageMargin = 10.0 // mm
	// mmPerPoint converts font sizes given in points to millimetres.
	mmPerPoint = 0.3528
)

// pdfPage maps world coordinates onto an A4 page in millimetres.
type pdfPage struct {
	pdf     *gofpdf.Fpdf
	scale   float64
	offX    float64
	offY    float64
	toLatin func(string) string
}

func (p *pdfPage) x(v float64) float64 { return p.offX + v*p.scale }
func (p *pdfPage) y(v float64) float64 { return p.offY + v*p.scale }

// WritePDF writes the scene as vector graphics on a single A4 page, fitted
// inside the margins. Hachure fills are approximated by translucent solid
// fills.
func WritePDF(w io.Writer, shapes []domain.Shape, opts Options) error {
	opts = opts.withDefaults()
	b := frame(shapes, opts.Padding)

	orientation := "P"
	if b.Width() > b.Height() {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetTitle("drawr export", true)
	pdf.AddPage()

	pw, ph := pdf.GetPageSize()
	scale := math.Min((pw-2*pageMargin)/b.Width(), (ph-2*pageMargin)/b.Height())
	page := &pdfPage{
		pdf:     pdf,
		scale:   scale,
		offX:    pageMargin + ((pw-2*pageMargin)-b.Width()*scale)/2 - b.MinX*scale,
		offY:    pageMargin + ((ph-2*pageMargin)-b.Height()*scale)/2 - b.MinY*scale,
		toLatin: pdf.UnicodeTranslatorFromDescriptor(""),
	}

	if !opts.Transparent {
		setFill(pdf, render.BackgroundColor)
		pdf.Rect(0, 0, pw, ph, "F")
	}
	for _, s := range shapes {
		page.shape(s)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

func rgb(hex string) (int, int, int) {
	c := gg.Hex(hex)
	return int(math.Round(c.R * 255)), int(math.Round(c.G * 255)), int(math.Round(c.B * 255))
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := rgb(hex)
	pdf.SetFillColor(r, g, b)
}

func (p *pdfPage) applyStyle(st domain.Style) string {
	pdf := p.pdf
	r, g, b := rgb(st.Stroke)
	pdf.SetDrawColor(r, g, b)
	pdf.SetTextColor(r, g, b)
	pdf.SetLineWidth(math.Max(0.1, st.StrokeWidth*p.scale))
	switch st.StrokeStyle {
	case domain.StrokeDashed:
		pdf.SetDashPattern([]float64{5 * p.scale, 5 * p.scale}, 0)
	case domain.StrokeDotted:
		pdf.SetDashPattern([]float64{2 * p.scale, 2 * p.scale}, 0)
	default:
		pdf.SetDashPattern([]float64{}, 0)
	}
	if st.Roundness == domain.RoundnessRound {
		pdf.SetLineCapStyle("round")
		pdf.SetLineJoinStyle("round")
	} else {
		pdf.SetLineCapStyle("butt")
		pdf.SetLineJoinStyle("miter")
	}
	pdf.SetAlpha(st.Alpha(), "Normal")

	if !st.Filled() {
		return "D"
	}
	setFill(pdf, st.BackgroundColor)
	if st.FillStyle != domain.FillSolid {
		pdf.SetAlpha(st.Alpha()*0.4, "Normal")
	}
	return "FD"
}

func (p *pdfPage) shape(s domain.Shape) {
	pdf := p.pdf
	style := p.applyStyle(s.Style)
	defer pdf.SetAlpha(1, "Normal")

	switch g := s.Geom.(type) {
	case domain.Rect:
		box := geometry.Box(g.X, g.Y, g.Width, g.Height)
		pdf.Rect(p.x(box.MinX), p.y(box.MinY), box.Width()*p.scale, box.Height()*p.scale, style)
	case domain.Diamond:
		pdf.Polygon([]gofpdf.PointType{
			{X: p.x(g.X + g.Width/2), Y: p.y(g.Y)},
			{X: p.x(g.X + g.Width), Y: p.y(g.Y + g.Height/2)},
			{X: p.x(g.X + g.Width/2), Y: p.y(g.Y + g.Height)},
			{X: p.x(g.X), Y: p.y(g.Y + g.Height/2)},
		}, style)
	case domain.Circle:
		pdf.Circle(p.x(g.CenterX), p.y(g.CenterY), math.Abs(g.Radius)*p.scale, style)
	case domain.Line:
		pdf.Line(p.x(g.StartX), p.y(g.StartY), p.x(g.EndX), p.y(g.EndY))
	case domain.Arrow:
		pdf.Line(p.x(g.StartX), p.y(g.StartY), p.x(g.EndX), p.y(g.EndY))
		angle := math.Atan2(g.EndY-g.StartY, g.EndX-g.StartX)
		for _, side := range []float64{-math.Pi / 6, math.Pi / 6} {
			pdf.Line(p.x(g.EndX), p.y(g.EndY),
				p.x(g.EndX-10*math.Cos(angle+side)), p.y(g.EndY-10*math.Sin(angle+side)))
		}
	case domain.Pencil:
		for i := 1; i < len(g.Points); i++ {
			a, b := g.Points[i-1], g.Points[i]
			pdf.Line(p.x(a.X), p.y(a.Y), p.x(b.X), p.y(b.Y))
		}
	case domain.Text:
		if g.Content == "" {
			return
		}
		pdf.SetFont("Helvetica", "", geometry.ReferenceFontSize*p.scale/mmPerPoint)
		pdf.Text(p.x(g.X), p.y(g.Y), p.toLatin(g.Content))
	}
}
