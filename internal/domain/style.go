package domain

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

type Roundness string

const (
	RoundnessSharp Roundness = "sharp"
	RoundnessRound Roundness = "round"
)

type FillStyle string

const (
	FillHachure    FillStyle = "hachure"
	FillCrossHatch FillStyle = "cross-hatch"
	FillSolid      FillStyle = "solid"
)

// NoFill is the BackgroundColor value meaning "unfilled".
const NoFill = "transparent"

// Style is the visual style shared by every shape kind.
// Opacity is a percentage in [0, 100].
type Style struct {
	Stroke          string      `json:"stroke"`
	BackgroundColor string      `json:"backgroundColor"`
	StrokeWidth     float64     `json:"strokeWidth"`
	StrokeStyle     StrokeStyle `json:"strokeStyle"`
	Roughness       float64     `json:"roughness"`
	Roundness       Roundness   `json:"roundness"`
	Opacity         float64     `json:"opacity"`
	FillStyle       FillStyle   `json:"fillStyle"`
}

func DefaultStyle() Style {
	return Style{
		Stroke:          "#ECECEC",
		BackgroundColor: NoFill,
		StrokeWidth:     2,
		StrokeStyle:     StrokeSolid,
		Roughness:       1,
		Roundness:       RoundnessRound,
		Opacity:         100,
		FillStyle:       FillHachure,
	}
}

// Filled reports whether the shape interior is painted.
func (s Style) Filled() bool {
	return s.BackgroundColor != "" && s.BackgroundColor != NoFill
}

// Alpha converts Opacity to [0, 1], clamping out-of-range values.
func (s Style) Alpha() float64 {
	a := s.Opacity / 100
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
