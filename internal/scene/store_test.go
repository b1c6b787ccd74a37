package scene_test

import (
	"testing"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledRect(id string, x, y, w, h float64) domain.Shape {
	style := domain.DefaultStyle()
	style.BackgroundColor = "#333333"
	return domain.Shape{ID: id, Style: style, Geom: domain.Rect{X: x, Y: y, Width: w, Height: h}}
}

func ids(shapes []domain.Shape) []string {
	out := make([]string, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, s.ID)
	}
	return out
}

func TestStore_AppendRejectsDuplicateID(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("a", 0, 0, 10, 10)))

	err := s.Append(filledRect("a", 5, 5, 10, 10))

	assert.ErrorIs(t, err, scene.ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
}

func TestStore_UpsertKeepsZOrderOnReplace(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("a", 0, 0, 10, 10)))
	require.NoError(t, s.Append(filledRect("b", 0, 0, 10, 10)))

	require.NoError(t, s.Upsert(filledRect("a", 50, 50, 10, 10)))
	require.NoError(t, s.Upsert(filledRect("c", 0, 0, 1, 1)))

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Shapes()))
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 50.0, got.Geom.(domain.Rect).X)
}

func TestStore_ReplaceAbsentIsNoOp(t *testing.T) {
	s := scene.NewStore()

	replaced, err := s.Replace(filledRect("ghost", 0, 0, 1, 1))

	assert.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ReplaceRejectsKindChange(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("a", 0, 0, 10, 10)))

	_, err := s.Replace(domain.Shape{ID: "a", Geom: domain.Circle{Radius: 3}})

	assert.ErrorIs(t, err, scene.ErrKindChanged)
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("a", 0, 0, 10, 10)))
	require.NoError(t, s.Append(filledRect("b", 0, 0, 10, 10)))
	require.NoError(t, s.Append(filledRect("c", 0, 0, 10, 10)))

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.False(t, s.Remove("never-existed"))

	assert.Equal(t, []string{"a", "c"}, ids(s.Shapes()))
	assert.True(t, s.Has("c"), "index is rebuilt after removal")
	assert.True(t, s.Remove("c"))
	assert.Equal(t, []string{"a"}, ids(s.Shapes()))
}

func TestStore_TopmostAtPrefersLaterShape(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("below", 0, 0, 100, 100)))
	require.NoError(t, s.Append(filledRect("above", 50, 50, 100, 100)))

	hit, ok := s.TopmostAt(domain.Point{X: 75, Y: 75}, 1, nil)
	require.True(t, ok)
	assert.Equal(t, "above", hit.ID)

	hit, ok = s.TopmostAt(domain.Point{X: 75, Y: 75}, 1, func(sh domain.Shape) bool { return sh.ID == "below" })
	require.True(t, ok)
	assert.Equal(t, "below", hit.ID)
}

func TestStore_ShapesReturnsCopies(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(domain.Shape{ID: "p", Geom: domain.Pencil{Points: []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}))

	out := s.Shapes()
	out[0].Geom.(domain.Pencil).Points[0].X = 42

	got, _ := s.Get("p")
	assert.Equal(t, 1.0, got.Geom.(domain.Pencil).Points[0].X)
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := scene.NewStore()
	require.NoError(t, s.Append(filledRect("a", 0, 0, 10, 10)))
	snap := s.Snapshot()
	require.NoError(t, s.Append(filledRect("b", 0, 0, 10, 10)))

	s.Restore(snap)

	assert.Equal(t, []string{"a"}, ids(s.Shapes()))
	assert.False(t, s.Has("b"))
}
