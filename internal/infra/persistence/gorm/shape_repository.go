package gormpersistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/repository"
)

// GormShapeRepository implements repository.ShapeRepository on the shapes table.
type GormShapeRepository struct {
	db *gorm.DB
}

func NewGormShapeRepository(db *gorm.DB) *GormShapeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormShapeRepository")
	}
	return &GormShapeRepository{db: db}
}

// CreateOrReplace upserts on the primary key. created_at is not in the update
// set, so a replayed create keeps the shape's place in the z-order. An
// existing row of another kind is left alone and ErrKindMismatch is returned.
func (r *GormShapeRepository) CreateOrReplace(ctx context.Context, roomID string, userID uint, shape domain.Shape) error {
	record, err := domain.NewShapeRecord(roomID, userID, shape)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockedKind(tx, roomID, shape); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(record).Error
		if err != nil {
			return fmt.Errorf("gorm: create or replace shape %s in room %s: %w", shape.ID, roomID, err)
		}
		return nil
	})
}

func (r *GormShapeRepository) Update(ctx context.Context, roomID string, shape domain.Shape) error {
	data, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("gorm: encode shape %s: %w", shape.ID, err)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := lockedKind(tx, roomID, shape)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrShapeNotFound
		}
		err = tx.Model(&domain.ShapeRecord{}).
			Where("id = ? AND room_id = ?", shape.ID, roomID).
			Updates(map[string]any{"data": datatypes.JSON(data), "updated_at": time.Now()}).Error
		if err != nil {
			return fmt.Errorf("gorm: update shape %s in room %s: %w", shape.ID, roomID, err)
		}
		return nil
	})
}

// lockedKind loads the stored kind of shape's row inside tx and checks it.
func lockedKind(tx *gorm.DB, roomID string, shape domain.Shape) (bool, error) {
	var current domain.ShapeRecord
	err := tx.Select("room_id", "id", "kind").
		Where("id = ? AND room_id = ?", shape.ID, roomID).
		First(&current).Error
	return checkKind(current, err, shape)
}

// checkKind interprets a lookup of the row shape would overwrite. It reports
// whether the row exists and fails when its kind differs from shape's.
func checkKind(current domain.ShapeRecord, lookupErr error, shape domain.Shape) (bool, error) {
	switch {
	case errors.Is(lookupErr, gorm.ErrRecordNotFound):
		return false, nil
	case lookupErr != nil:
		return false, fmt.Errorf("gorm: load shape %s: %w", shape.ID, lookupErr)
	case current.Kind != shape.Kind():
		return true, repository.ErrKindMismatch
	default:
		return true, nil
	}
}

func (r *GormShapeRepository) Delete(ctx context.Context, roomID, shapeID string) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND room_id = ?", shapeID, roomID).
		Delete(&domain.ShapeRecord{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete shape %s in room %s: %w", shapeID, roomID, err)
	}
	return nil
}

func (r *GormShapeRepository) DeleteAllInRoom(ctx context.Context, roomID string) error {
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.ShapeRecord{}).Error
	if err != nil {
		return fmt.Errorf("gorm: clear room %s: %w", roomID, err)
	}
	return nil
}

func (r *GormShapeRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.ShapeRecord, error) {
	var records []domain.ShapeRecord
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list shapes for room %s: %w", roomID, err)
	}
	return records, nil
}
