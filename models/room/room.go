package room

import (
	"fmt"
	"time"
)

// Room represents a bookable meeting room.
type Room struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(120);not null" json:"name"`
	Floor     int    `gorm:"not null" json:"floor"`
	Capacity  int    `gorm:"not null" json:"capacity"`
	Equipment string `gorm:"type:text" json:"equipment,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	// No default tag: gorm drops zero-valued fields that carry one on
	// insert, which would turn an explicit false back into true.
	IsActive bool `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MeetsCapacity reports whether the room can hold the required number of people.
func (r *Room) MeetsCapacity(required int) bool {
	return r.Capacity >= required
}

// DisplayName returns the room name with its floor, for logs and notifications.
func (r *Room) DisplayName() string {
	return fmt.Sprintf("%s (Floor %d)", r.Name, r.Floor)
}
