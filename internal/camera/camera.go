// Package camera holds the pan/zoom transform between screen and world space.
//
//	world = (screen - pan) / zoom
package camera

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

const (
	MinZoom = 0.1
	MaxZoom = 10.0

	// WheelFactor is the zoom multiplier applied per wheel notch.
	WheelFactor = 1.1
)

type Camera struct {
	Zoom float64
	Pan  domain.Point
}

func New() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) Reset() {
	c.Zoom = 1
	c.Pan = domain.Point{}
}

func (c *Camera) ScreenToWorld(p domain.Point) domain.Point {
	return domain.Point{X: (p.X - c.Pan.X) / c.Zoom, Y: (p.Y - c.Pan.Y) / c.Zoom}
}

func (c *Camera) WorldToScreen(p domain.Point) domain.Point {
	return domain.Point{X: p.X*c.Zoom + c.Pan.X, Y: p.Y*c.Zoom + c.Pan.Y}
}

// PanBy shifts the view by a screen-space delta.
func (c *Camera) PanBy(dx, dy float64) {
	c.Pan.X += dx
	c.Pan.Y += dy
}

// ZoomAt changes the zoom while keeping the world point under screen fixed.
func (c *Camera) ZoomAt(screen domain.Point, zoom float64) {
	zoom = Clamp(zoom)
	anchor := c.ScreenToWorld(screen)
	c.Zoom = zoom
	c.Pan.X = screen.X - anchor.X*zoom
	c.Pan.Y = screen.Y - anchor.Y*zoom
}

// Wheel applies one wheel event at screen. Negative deltaY zooms in.
func (c *Camera) Wheel(screen domain.Point, deltaY float64) {
	switch {
	case deltaY < 0:
		c.ZoomAt(screen, c.Zoom*WheelFactor)
	case deltaY > 0:
		c.ZoomAt(screen, c.Zoom/WheelFactor)
	}
}

// Viewport is the world-space rectangle visible on a w x h screen.
func (c *Camera) Viewport(w, h float64) geometry.AABB {
	tl := c.ScreenToWorld(domain.Point{})
	br := c.ScreenToWorld(domain.Point{X: w, Y: h})
	return geometry.AABB{MinX: tl.X, MinY: tl.Y, MaxX: br.X, MaxY: br.Y}
}

// ZoomPercent is the rounded zoom level shown in the UI.
func (c *Camera) ZoomPercent() int {
	return int(math.Round(c.Zoom * 100))
}

// Clamp limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func Clamp(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
