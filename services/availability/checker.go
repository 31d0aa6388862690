package availability

import (
	"errors"
	"time"

	bookingModel "room-booking/models/booking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictChecker answers whether a requested window overlaps an existing
// blocking booking for a room. Intervals are half-open [start, end): a
// booking ending at T never conflicts with one starting at T.
type ConflictChecker struct {
	db *gorm.DB
}

func NewConflictChecker(db *gorm.DB) *ConflictChecker {
	return &ConflictChecker{db: db}
}

// HasConflict reports whether any scheduled or in-progress booking for roomID
// overlaps [start, end). excludeID, when non-zero, leaves that booking out of
// the check so edit flows do not collide with themselves. Pure query.
func (cc *ConflictChecker) HasConflict(roomID uint, start, end time.Time, excludeID uint) (bool, error) {
	return hasConflict(cc.db, roomID, start, end, excludeID, false)
}

// hasConflict runs the overlap test on the given handle, which may be a
// transaction. With lock=true any candidate rows are locked FOR UPDATE so
// they cannot be cancelled or moved under the transaction's feet. The lock
// cannot guard a check that finds no rows; the planner's per-room mutex
// closes that gap. Row locking is a postgres feature; the sqlite dialect
// used in tests falls back to the plain query.
func hasConflict(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint, lock bool) (bool, error) {
	q := tx.Model(&bookingModel.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, blockingStatusStrings()).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if lock && tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var existing bookingModel.Booking
	err := q.Take(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ApplyBuffer widens [start, end) symmetrically by bufferMinutes on each
// side. The padded window is used only for conflict checks, never persisted;
// it models turnover time between meetings.
func ApplyBuffer(start, end time.Time, bufferMinutes int) (time.Time, time.Time) {
	if bufferMinutes <= 0 {
		return start, end
	}
	pad := time.Duration(bufferMinutes) * time.Minute
	return start.Add(-pad), end.Add(pad)
}

func blockingStatusStrings() []string {
	statuses := bookingModel.BlockingStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
