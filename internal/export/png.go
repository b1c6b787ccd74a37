package export

import (
	"fmt"
	"io"
	"math"

	"github.com/Abhijitam01/drawr/internal/camera"
	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/render"
)

// WritePNG renders shapes through the static render layer and encodes the
// result. The scale shrinks when the scene would exceed MaxPixels.
func WritePNG(w io.Writer, shapes []domain.Shape, opts Options) error {
	opts = opts.withDefaults()
	b := frame(shapes, opts.Padding)

	scale := opts.Scale
	if longest := math.Max(b.Width(), b.Height()) * scale; longest > MaxPixels {
		scale *= MaxPixels / longest
	}
	width := int(math.Ceil(b.Width() * scale))
	height := int(math.Ceil(b.Height() * scale))

	p := render.NewPipeline(width, height)
	defer p.Close()
	if opts.Transparent {
		p.SetBackground(domain.NoFill)
	}
	cam := camera.Camera{Zoom: scale, Pan: domain.Point{X: -b.MinX * scale, Y: -b.MinY * scale}}
	if _, err := p.RenderStatic(shapes, cam, ""); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := p.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
