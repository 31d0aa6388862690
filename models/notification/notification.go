package notification

import (
	"time"
)

// Notification categories.
const (
	CategoryInfo    = "info"
	CategoryBooking = "booking"
	CategoryWarning = "warning"
)

// Notification represents a message recorded for an employee.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	EmployeeID uint `gorm:"not null;index" json:"employee_id"`

	Category string     `gorm:"type:varchar(30);not null;default:info" json:"category"`
	Message  string     `gorm:"type:text;not null" json:"message"`
	ReadAt   *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsRead reports whether the notification has been acknowledged.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
