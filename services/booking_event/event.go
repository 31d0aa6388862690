package booking_event

import (
	bookingModel "room-booking/models/booking"

	"gorm.io/gorm"
)

// AppendStatusEvent writes a BookingStatusEvent row recording that the
// booking entered the given status. Runs on the caller's transaction so the
// history row commits or rolls back together with the booking itself.
func AppendStatusEvent(tx *gorm.DB, bookingID uint, status bookingModel.BookingStatus, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID: bookingID,
		Status:    status,
		CreatedBy: createdBy,
	}
	return tx.Create(&ev).Error
}

// History returns the status events for a booking in chronological order.
func History(db *gorm.DB, bookingID uint) ([]bookingModel.BookingStatusEvent, error) {
	var events []bookingModel.BookingStatusEvent
	err := db.Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
