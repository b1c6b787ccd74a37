package domain

import (
	"strconv"
	"time"
)

// Room is a collaboration namespace. Shapes and messages never cross rooms.
type Room struct {
	ID         uint      `gorm:"primaryKey"`
	CreatorID  uint      `gorm:"index;not null"`
	InviteCode string    `gorm:"uniqueIndex;size:191;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	LastActive time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Key is the room identifier used on the wire and in shape rows.
func (r Room) Key() string {
	return strconv.FormatUint(uint64(r.ID), 10)
}
