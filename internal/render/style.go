package render

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/gg"

	"github.com/Abhijitam01/drawr/internal/domain"
)

const (
	BackgroundColor = "#121212"
	SelectionColor  = "#3b82f6"
	PreviewColor    = "#A5A5A5"

	// Overlay sizes are in screen pixels.
	selectionPadding = 4.0
	handleRadius     = 4.0
	previewWidth     = 2.0
	cursorLabelSize  = 12.0
	arrowHeadLength  = 10.0
)

// setColor sets hex scaled by alpha. Unparseable input yields opaque black
// from gg.Hex.
func setColor(dc *gg.Context, hex string, alpha float64) {
	c := gg.Hex(hex)
	dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
}

// applyStroke configures line width, dash and joins. Widths and dashes are
// divided by zoom so they stay constant on screen.
func applyStroke(dc *gg.Context, st domain.Style, zoom float64) {
	setColor(dc, st.Stroke, st.Alpha())
	dc.SetLineWidth(st.StrokeWidth / zoom)
	switch st.StrokeStyle {
	case domain.StrokeDashed:
		dc.SetDash(5/zoom, 5/zoom)
	case domain.StrokeDotted:
		dc.SetDash(2/zoom, 2/zoom)
	default:
		dc.ClearDash()
	}
	if st.Roundness == domain.RoundnessRound {
		dc.SetLineJoin(gg.LineJoinRound)
		dc.SetLineCap(gg.LineCapRound)
	} else {
		dc.SetLineJoin(gg.LineJoinMiter)
		dc.SetLineCap(gg.LineCapButt)
	}
}

// CollaboratorColor derives a stable colour from a user id.
func CollaboratorColor(userID string) gg.RGBA {
	hue := float64(xxhash.Sum64String(userID) % 360)
	return gg.HSL(hue, 0.7, 0.6)
}

// faceSize snaps a font size so zooming does not grow the face cache without
// bound.
func faceSize(size float64) float64 {
	return math.Max(1, math.Round(size*4)/4)
}
