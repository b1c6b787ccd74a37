// Package export writes a whole scene as a PNG raster or a PDF document.
package export

import (
	"math"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

const (
	DefaultPadding = 20.0
	// MaxPixels bounds either side of a raster export.
	MaxPixels = 8192
)

type Options struct {
	// Padding around the scene bounds, in world units.
	Padding float64
	// Scale is output pixels per world unit for PNG. Zero means 1.
	Scale float64
	// Transparent skips the background fill.
	Transparent bool
}

func (o Options) withDefaults() Options {
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

// frame is the world rectangle exported for shapes. An empty scene exports a
// small blank area at the origin.
func frame(shapes []domain.Shape, pad float64) geometry.AABB {
	b, ok := geometry.SceneBounds(shapes)
	if !ok {
		b = geometry.Box(0, 0, 64, 64)
	}
	b = b.Pad(pad)
	b.MinX, b.MinY = math.Floor(b.MinX), math.Floor(b.MinY)
	b.MaxX, b.MaxY = math.Ceil(b.MaxX), math.Ceil(b.MaxY)
	return b
}
