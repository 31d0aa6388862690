package booking

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusScheduled  BookingStatus = "scheduled"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Helper methods for BookingStatus
func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusScheduled, BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed from this state.
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusCancelled || bs == BookingStatusCompleted
}

// BlocksSlot returns true if a booking in this state still occupies its
// room/time slot for conflict purposes. Cancelled and completed bookings
// vacate the slot.
func (bs BookingStatus) BlocksSlot() bool {
	return bs == BookingStatusScheduled || bs == BookingStatusInProgress
}

// CanBeUpdated returns true if the booking window or room may still change.
func (bs BookingStatus) CanBeUpdated() bool {
	return bs == BookingStatusScheduled
}

// BlockingStatuses returns the statuses that participate in conflict checks.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusScheduled, BookingStatusInProgress}
}

// GetAllBookingStatuses returns all valid booking statuses.
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusScheduled,
		BookingStatusInProgress,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}
