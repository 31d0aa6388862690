package housekeeping

import (
	"fmt"
	"time"

	"room-booking/logger"
	bookingModel "room-booking/models/booking"
	"room-booking/services/availability"

	"gorm.io/gorm"
)

// Sweeper performs the time-driven booking status transitions: scheduled
// bookings whose start has passed become in-progress, and blocking bookings
// whose end has passed become completed. It runs outside the planner so the
// planner stays a pure request/response component.
type Sweeper struct {
	db    *gorm.DB
	clock availability.Clock
}

func NewSweeper(db *gorm.DB, clock availability.Clock) *Sweeper {
	if clock == nil {
		clock = availability.SystemClock()
	}
	return &Sweeper{db: db, clock: clock}
}

// SweepOnce applies both transitions once and returns how many rows each
// touched. Completion runs first so a booking that is entirely in the past
// never passes through in-progress.
func (s *Sweeper) SweepOnce() (started int64, completed int64, err error) {
	now := s.clock.Now()

	res := s.db.Model(&bookingModel.Booking{}).
		Where("status IN ? AND end_time <= ?",
			[]string{
				bookingModel.BookingStatusScheduled.String(),
				bookingModel.BookingStatusInProgress.String(),
			}, now).
		Update("status", bookingModel.BookingStatusCompleted)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	completed = res.RowsAffected

	res = s.db.Model(&bookingModel.Booking{}).
		Where("status = ? AND start_time <= ? AND end_time > ?",
			bookingModel.BookingStatusScheduled.String(), now, now).
		Update("status", bookingModel.BookingStatusInProgress)
	if res.Error != nil {
		return 0, completed, res.Error
	}
	started = res.RowsAffected

	return started, completed, nil
}

// Run sweeps on the given interval until stop is closed. Meant to be started
// as a goroutine from main.
func (s *Sweeper) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			started, completed, err := s.SweepOnce()
			if err != nil {
				logger.Error("Housekeeping sweep failed", err)
				continue
			}
			if started > 0 || completed > 0 {
				logger.Info(fmt.Sprintf("Housekeeping: %d bookings started, %d completed", started, completed))
			}
		case <-stop:
			return
		}
	}
}
