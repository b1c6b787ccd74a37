package geometry

import (
	"sync"
	"unicode/utf8"

	"github.com/gogpu/gg/text"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"
)

// ReferenceFontSize is the world-space font size text shapes are laid out at.
// Text therefore scales with zoom like every other shape, rather than keeping
// a constant on-screen size; bounds, hit testing and drawing all agree on it.
const ReferenceFontSize = 20.0

// fallbackAdvance approximates the advance of one glyph, in ems, when the
// embedded font cannot be parsed.
const fallbackAdvance = 0.55

var (
	fontOnce   sync.Once
	fontSource *text.FontSource

	facesMu sync.Mutex
	faces   = map[float64]text.Face{}
)

func loadFont() *text.FontSource {
	fontOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			logrus.WithError(err).Error("geometry: failed to parse embedded font, using approximate text metrics")
			return
		}
		fontSource = src
	})
	return fontSource
}

// Face returns a cached face of the embedded font at size, or nil when the
// font is unavailable.
func Face(size float64) text.Face {
	src := loadFont()
	if src == nil || size <= 0 {
		return nil
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f
	}
	f := src.Face(size)
	faces[size] = f
	return f
}

// MeasureText returns the advance width of s and its line height. The height
// is the font size itself so that an empty string still has a caret-sized box.
func MeasureText(s string, size float64) (w, h float64) {
	if s == "" {
		return 0, size
	}
	if face := Face(size); face != nil {
		w, _ = text.Measure(s, face)
		return w, size
	}
	return float64(utf8.RuneCountInString(s)) * size * fallbackAdvance, size
}
