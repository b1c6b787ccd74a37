package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ShapeRecord is the persisted row for one shape. Data holds the wire JSON of
// the shape so the row can be returned to clients unchanged. The key is
// (room_id, id) so the same id in two rooms never collides.
type ShapeRecord struct {
	RoomID    string         `gorm:"primaryKey;size:64"`
	ID        string         `gorm:"primaryKey;size:64"`
	Kind      Kind           `gorm:"size:16;not null"`
	UserID    uint           `gorm:"index"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (ShapeRecord) TableName() string { return "shapes" }

// NewShapeRecord encodes s for storage in roomID.
func NewShapeRecord(roomID string, userID uint, s Shape) (*ShapeRecord, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode shape record: %w", err)
	}
	return &ShapeRecord{
		ID:     s.ID,
		RoomID: roomID,
		Kind:   s.Kind(),
		UserID: userID,
		Data:   datatypes.JSON(data),
	}, nil
}

// Shape decodes the stored payload.
func (r *ShapeRecord) Shape() (Shape, error) {
	var s Shape
	if err := json.Unmarshal(r.Data, &s); err != nil {
		return Shape{}, fmt.Errorf("decode shape record %s: %w", r.ID, err)
	}
	return s, nil
}
