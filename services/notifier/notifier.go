package notifier

import (
	"context"
	"os"
	"time"

	"room-booking/logger"
	notificationModel "room-booking/models/notification"

	"gorm.io/gorm"
)

// Service records booking notifications as rows the employee can read back,
// and forwards them to RabbitMQ when a publisher is configured. Delivery is
// fire-and-forget: the planner never learns about notification failures.
type Service struct {
	db  *gorm.DB
	pub *Publisher
}

func NewService(db *gorm.DB, pub *Publisher) *Service {
	return &Service{db: db, pub: pub}
}

// NewServiceFromEnv builds a Service using AMQP_URL if set; without it
// notifications are DB-only.
func NewServiceFromEnv(db *gorm.DB) *Service {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		return NewService(db, nil)
	}
	exchange := os.Getenv("AMQP_EXCHANGE")
	if exchange == "" {
		exchange = "room-booking.notifications"
	}
	pub, err := NewPublisher(url, exchange)
	if err != nil {
		logger.Warning("RabbitMQ unavailable, notifications will be stored only: " + err.Error())
		return NewService(db, nil)
	}
	logger.Success("Connected to RabbitMQ exchange " + exchange)
	return NewService(db, pub)
}

// Notify implements availability.Notifier.
func (s *Service) Notify(employeeID uint, message string) {
	notice := notificationModel.Notification{
		EmployeeID: employeeID,
		Category:   notificationModel.CategoryBooking,
		Message:    message,
	}
	if err := s.db.Create(&notice).Error; err != nil {
		logger.Error("Failed to record notification", err)
	}

	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.pub.PublishJSON(ctx, "notification.created", map[string]any{
		"employee_id": employeeID,
		"message":     message,
		"category":    notice.Category,
		"created_at":  time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to publish notification event", err)
	}
}

// Close releases the AMQP connection, if any.
func (s *Service) Close() {
	if s.pub != nil {
		_ = s.pub.Close()
	}
}
