package export_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/export"
)

func sampleScene() []domain.Shape {
	filled := domain.DefaultStyle()
	filled.BackgroundColor = "#2f9e44"
	dashed := domain.DefaultStyle()
	dashed.StrokeStyle = domain.StrokeDashed
	return []domain.Shape{
		{ID: "r", Style: filled, Geom: domain.Rect{X: 10, Y: 10, Width: 100, Height: 50}},
		{ID: "d", Style: dashed, Geom: domain.Diamond{X: 150, Y: 10, Width: 60, Height: 60}},
		{ID: "c", Style: domain.DefaultStyle(), Geom: domain.Circle{CenterX: 60, CenterY: 120, Radius: 30}},
		{ID: "a", Style: domain.DefaultStyle(), Geom: domain.Arrow{StartX: 0, StartY: 200, EndX: 180, EndY: 160}},
		{ID: "p", Style: domain.DefaultStyle(), Geom: domain.Pencil{Points: []domain.Point{{X: 5, Y: 5}, {X: 20, Y: 30}, {X: 40, Y: 10}}}},
		{ID: "t", Style: domain.DefaultStyle(), Geom: domain.Text{X: 120, Y: 120, Content: "héllo"}},
	}
}

func TestWritePNG_SizedToSceneBounds(t *testing.T) {
	shapes := []domain.Shape{{ID: "r", Style: domain.DefaultStyle(), Geom: domain.Rect{X: 0, Y: 0, Width: 100, Height: 50}}}
	var buf bytes.Buffer

	err := export.WritePNG(&buf, shapes, export.Options{Padding: 10, Scale: 2})

	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 140, img.Bounds().Dy())
}

func TestWritePNG_EmptyScene(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WritePNG(&buf, nil, export.Options{}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestWritePNG_TransparentBackground(t *testing.T) {
	shapes := []domain.Shape{{ID: "l", Style: domain.DefaultStyle(), Geom: domain.Line{StartX: 0, StartY: 0, EndX: 10, EndY: 0}}}
	var buf bytes.Buffer

	require.NoError(t, export.WritePNG(&buf, shapes, export.Options{Transparent: true}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	_, _, _, a := img.At(0, img.Bounds().Dy()-1).RGBA()
	assert.Zero(t, a)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer

	err := export.WritePDF(&buf, sampleScene(), export.Options{})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}
