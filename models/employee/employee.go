package employee

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Employee represents a staff member who can reserve rooms.
type Employee struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string `gorm:"type:varchar(80);not null" json:"first_name"`
	LastName     string `gorm:"type:varchar(80);not null" json:"last_name"`
	Email        string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Role         string `gorm:"type:varchar(20);not null;default:staff" json:"role"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// No default tag, so an explicit false survives the insert.
	IsActive bool `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName returns the display name used in notifications.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// IsAdmin reports whether the employee has the admin role.
func (e *Employee) IsAdmin() bool {
	return e.Role == "admin"
}

// SetPassword hashes and stores the given plaintext password.
func (e *Employee) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}
