package booking

import (
	"room-booking/models/employee"
	"room-booking/models/room"
	"time"
)

// Booking represents a meeting room reservation for a time window.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Reference is a stable external identifier, assigned at creation.
	Reference string `gorm:"type:varchar(64);not null;unique" json:"reference"`

	// Foreign key for rooms relationship
	RoomID uint      `gorm:"not null;index" json:"room_id"`
	Room   room.Room `gorm:"foreignKey:RoomID" json:"room"`

	// Foreign key for employees relationship
	OwnerID uint              `gorm:"not null;index" json:"owner_id"`
	Owner   employee.Employee `gorm:"foreignKey:OwnerID" json:"owner"`

	// Half-open window [StartTime, EndTime); EndTime is strictly after StartTime.
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`

	Title  string `gorm:"type:varchar(255);not null" json:"title"`
	Agenda string `gorm:"type:text" json:"agenda,omitempty"`

	Status BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Overlaps reports whether the booking window shares any instant with
// [start, end) under half-open semantics.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// Duration returns the length of the booked window.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
