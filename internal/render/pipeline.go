// Package render draws a scene onto two raster layers: a static layer with
// the committed shapes and an interactive layer with transient overlays.
package render

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/gg"

	"github.com/Abhijitam01/drawr/internal/camera"
	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

type Layer int

const (
	LayerStatic Layer = iota
	LayerInteractive
)

// Pipeline owns both layers. It is not safe for concurrent use.
type Pipeline struct {
	width, height int
	static        *gg.Context
	interactive   *gg.Context
	background    string

	lastHash   uint64
	hashed     bool
	staticRuns int
	lastDrawn  int
}

func NewPipeline(width, height int) *Pipeline {
	p := &Pipeline{background: BackgroundColor}
	p.Resize(width, height)
	return p
}

// Resize reallocates both layers and forces the next static render.
func (p *Pipeline) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	if width == p.width && height == p.height && p.static != nil {
		return
	}
	p.Close()
	p.width, p.height = width, height
	p.static = gg.NewContext(width, height)
	p.interactive = gg.NewContext(width, height)
	p.hashed = false
}

func (p *Pipeline) Close() {
	if p.static != nil {
		_ = p.static.Close()
	}
	if p.interactive != nil {
		_ = p.interactive.Close()
	}
}

func (p *Pipeline) Size() (int, int) { return p.width, p.height }

// SetBackground sets the static layer fill. domain.NoFill leaves it
// transparent.
func (p *Pipeline) SetBackground(hex string) {
	if hex != p.background {
		p.background = hex
		p.hashed = false
	}
}

// StaticRenders counts static redraws that actually ran.
func (p *Pipeline) StaticRenders() int { return p.staticRuns }

// LastDrawn is the number of shapes that survived culling in the last
// static redraw.
func (p *Pipeline) LastDrawn() int { return p.lastDrawn }

// RenderStatic redraws the committed scene unless the scene, camera, size
// and hidden id hash to the same value as last time. hiddenID names a shape
// drawn by the overlay instead (the text being edited). It reports whether
// the layer was redrawn.
func (p *Pipeline) RenderStatic(shapes []domain.Shape, cam camera.Camera, hiddenID string) (bool, error) {
	sum, err := p.sceneHash(shapes, cam, hiddenID)
	if err != nil {
		return false, err
	}
	if p.hashed && sum == p.lastHash {
		return false, nil
	}

	dc := p.static
	dc.Identity()
	if p.background == domain.NoFill || p.background == "" {
		dc.Clear()
	} else {
		dc.ClearWithColor(gg.Hex(p.background))
	}
	setCamera(dc, cam)

	viewport := cam.Viewport(float64(p.width), float64(p.height))
	drawn := 0
	for _, s := range shapes {
		if s.ID == hiddenID && hiddenID != "" {
			continue
		}
		if !geometry.ViewportIntersects(geometry.Bounds(s), viewport) {
			continue
		}
		if err := drawShape(dc, s, cam.Zoom); err != nil {
			dc.Identity()
			return false, fmt.Errorf("render shape %s: %w", s.ID, err)
		}
		drawn++
	}
	dc.Identity()

	p.lastHash, p.hashed = sum, true
	p.lastDrawn = drawn
	p.staticRuns++
	return true, nil
}

// Invalidate forces the next RenderStatic to redraw.
func (p *Pipeline) Invalidate() { p.hashed = false }

func (p *Pipeline) sceneHash(shapes []domain.Shape, cam camera.Camera, hiddenID string) (uint64, error) {
	body, err := json.Marshal(shapes)
	if err != nil {
		return 0, fmt.Errorf("hash scene: %w", err)
	}
	d := xxhash.New()
	_, _ = d.Write(body)
	var buf [8]byte
	for _, f := range []float64{cam.Zoom, cam.Pan.X, cam.Pan.Y, float64(p.width), float64(p.height)} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	_, _ = d.WriteString(hiddenID)
	return d.Sum64(), nil
}

// setCamera maps world to screen: screen = world*zoom + pan.
func setCamera(dc *gg.Context, cam camera.Camera) {
	dc.SetTransform(gg.Matrix{A: cam.Zoom, C: cam.Pan.X, E: cam.Zoom, F: cam.Pan.Y})
}

// StaticImage and OverlayImage expose the raw layers.
func (p *Pipeline) StaticImage() image.Image  { return p.static.Image() }
func (p *Pipeline) OverlayImage() image.Image { return p.interactive.Image() }

// Composite returns the overlay drawn over the static layer.
func (p *Pipeline) Composite() image.Image {
	out := gg.NewContext(p.width, p.height)
	out.DrawImage(gg.ImageBufFromImage(p.static.Image()), 0, 0)
	out.DrawImage(gg.ImageBufFromImage(p.interactive.Image()), 0, 0)
	return out.Image()
}

// EncodePNG writes the composited frame.
func (p *Pipeline) EncodePNG(w io.Writer) error {
	out := gg.NewContextForImage(p.Composite())
	defer out.Close()
	return out.EncodePNG(w)
}
