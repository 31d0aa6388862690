package housekeeping

import (
	"testing"
	"time"

	bookingModel "room-booking/models/booking"
	employeeModel "room-booking/models/employee"
	roomModel "room-booking/models/room"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&employeeModel.Employee{},
		&roomModel.Room{},
		&bookingModel.Booking{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, roomID uint, start, end time.Time, status bookingModel.BookingStatus) bookingModel.Booking {
	t.Helper()
	b := bookingModel.Booking{
		Reference: uuid.NewString(),
		RoomID:    roomID,
		OwnerID:   1,
		StartTime: start,
		EndTime:   end,
		Title:     "Seeded booking",
		Status:    status,
		CreatedBy: "seed",
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return b
}

func TestSweepOnce(t *testing.T) {
	db := setupTestDB(t)
	rm := roomModel.Room{Name: "Alpha", Floor: 1, Capacity: 4, IsActive: true}
	if err := db.Create(&rm).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}

	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	sweeper := NewSweeper(db, fixedClock{now: now})

	future := seedBooking(t, db, rm.ID, now.Add(time.Hour), now.Add(2*time.Hour), bookingModel.BookingStatusScheduled)
	running := seedBooking(t, db, rm.ID, now.Add(-30*time.Minute), now.Add(30*time.Minute), bookingModel.BookingStatusScheduled)
	over := seedBooking(t, db, rm.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), bookingModel.BookingStatusScheduled)
	wasRunning := seedBooking(t, db, rm.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), bookingModel.BookingStatusInProgress)
	cancelled := seedBooking(t, db, rm.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), bookingModel.BookingStatusCancelled)
	// Ends exactly now: the half-open window means the meeting is over.
	endingNow := seedBooking(t, db, rm.ID, now.Add(-time.Hour), now, bookingModel.BookingStatusInProgress)

	started, completed, err := sweeper.SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}
	if started != 1 {
		t.Errorf("started = %d, want 1", started)
	}
	if completed != 3 {
		t.Errorf("completed = %d, want 3", completed)
	}

	want := map[uint]bookingModel.BookingStatus{
		future.ID:     bookingModel.BookingStatusScheduled,
		running.ID:    bookingModel.BookingStatusInProgress,
		over.ID:       bookingModel.BookingStatusCompleted,
		wasRunning.ID: bookingModel.BookingStatusCompleted,
		cancelled.ID:  bookingModel.BookingStatusCancelled,
		endingNow.ID:  bookingModel.BookingStatusCompleted,
	}
	for id, wantStatus := range want {
		var b bookingModel.Booking
		if err := db.First(&b, id).Error; err != nil {
			t.Fatalf("failed to reload booking %d: %v", id, err)
		}
		if b.Status != wantStatus {
			t.Errorf("booking %d status = %s, want %s", id, b.Status, wantStatus)
		}
	}
}

func TestSweepOnceIsStable(t *testing.T) {
	db := setupTestDB(t)
	rm := roomModel.Room{Name: "Alpha", Floor: 1, Capacity: 4, IsActive: true}
	if err := db.Create(&rm).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}

	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	sweeper := NewSweeper(db, fixedClock{now: now})
	seedBooking(t, db, rm.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), bookingModel.BookingStatusScheduled)

	if _, _, err := sweeper.SweepOnce(); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	started, completed, err := sweeper.SweepOnce()
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if started != 0 || completed != 0 {
		t.Errorf("second sweep touched rows: started=%d completed=%d, want 0 and 0", started, completed)
	}
}
