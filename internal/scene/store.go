// Package scene keeps the ordered shape collection of the active room and the
// local undo/redo history built from its snapshots.
package scene

import (
	"errors"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
)

var (
	ErrDuplicateID = errors.New("scene: shape id already present")
	ErrKindChanged = errors.New("scene: shape kind cannot change")
)

// Snapshot is an immutable copy of a scene's shapes in z-order.
type Snapshot []domain.Shape

// Store is the ordered, in-memory scene. Slice order is z-order: later shapes
// draw on top. Ids are unique. Store is not safe for concurrent use; the
// editor loop owns it.
type Store struct {
	shapes []domain.Shape
	index  map[string]int
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

func (s *Store) Len() int { return len(s.shapes) }

// Get returns a copy of the shape with id.
func (s *Store) Get(id string) (domain.Shape, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Shape{}, false
	}
	return s.shapes[i].Clone(), true
}

func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Append adds a shape on top of the scene.
func (s *Store) Append(shape domain.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if _, ok := s.index[shape.ID]; ok {
		return ErrDuplicateID
	}
	s.index[shape.ID] = len(s.shapes)
	s.shapes = append(s.shapes, shape.Clone())
	return nil
}

// Upsert replaces the shape in place when its id is present and appends it
// otherwise. Duplicate delivery of a create is therefore harmless.
func (s *Store) Upsert(shape domain.Shape) error {
	if _, ok := s.index[shape.ID]; ok {
		_, err := s.Replace(shape)
		return err
	}
	return s.Append(shape)
}

// Replace swaps the shape with the same id, keeping its z-position. It
// reports false when the id is absent.
func (s *Store) Replace(shape domain.Shape) (bool, error) {
	i, ok := s.index[shape.ID]
	if !ok {
		return false, nil
	}
	if s.shapes[i].Kind() != shape.Kind() {
		return false, ErrKindChanged
	}
	s.shapes[i] = shape.Clone()
	return true, nil
}

// Remove deletes the shape with id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.shapes); j++ {
		s.index[s.shapes[j].ID] = j
	}
	return true
}

func (s *Store) Clear() {
	s.shapes = nil
	s.index = make(map[string]int)
}

// Shapes returns a deep copy of the scene in z-order.
func (s *Store) Shapes() []domain.Shape {
	out := make([]domain.Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh.Clone()
	}
	return out
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot(s.Shapes())
}

// Restore replaces the whole scene with snap. Later duplicates of an id are
// dropped.
func (s *Store) Restore(snap Snapshot) {
	s.Clear()
	for _, sh := range snap {
		if _, ok := s.index[sh.ID]; ok || sh.ID == "" {
			continue
		}
		s.index[sh.ID] = len(s.shapes)
		s.shapes = append(s.shapes, sh.Clone())
	}
}

// TopmostAt returns the topmost shape hit by p that passes filter (nil accepts
// all), scanning from the top of the z-order down.
func (s *Store) TopmostAt(p domain.Point, zoom float64, filter func(domain.Shape) bool) (domain.Shape, bool) {
	for i := len(s.shapes) - 1; i >= 0; i-- {
		sh := s.shapes[i]
		if filter != nil && !filter(sh) {
			continue
		}
		if geometry.HitTest(p, sh, zoom) {
			return sh.Clone(), true
		}
	}
	return domain.Shape{}, false
}
