package availability

import (
	"errors"
	"sync"
	"testing"
	"time"

	bookingModel "room-booking/models/booking"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(employeeID uint, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

var testNow = time.Date(2025, 10, 10, 8, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T, cfg Config) (*Planner, *recordingNotifier) {
	t.Helper()
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	return NewPlanner(db, notifier, cfg, fixedClock{now: testNow}), notifier
}

func TestCreateBookingValidation(t *testing.T) {
	planner, _ := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)
	closed := seedRoom(t, db, "Storage", 0, 2, false)

	start := testNow.Add(2 * time.Hour)

	tests := []struct {
		name     string
		input    CreateInput
		wantCode ErrorCode
	}{
		{
			name:     "end before start",
			input:    CreateInput{RoomID: alpha.ID, Start: start, End: start.Add(-time.Hour), Title: "Sync"},
			wantCode: CodeInvalidWindow,
		},
		{
			name:     "zero length window",
			input:    CreateInput{RoomID: alpha.ID, Start: start, End: start, Title: "Sync"},
			wantCode: CodeInvalidWindow,
		},
		{
			name:     "start in the past",
			input:    CreateInput{RoomID: alpha.ID, Start: testNow.Add(-time.Hour), End: testNow.Add(time.Hour), Title: "Sync"},
			wantCode: CodePastWindow,
		},
		{
			name:     "duration over the cap",
			input:    CreateInput{RoomID: alpha.ID, Start: start, End: start.Add(9 * time.Hour), Title: "Offsite"},
			wantCode: CodeDurationExceeded,
		},
		{
			name:     "unknown room",
			input:    CreateInput{RoomID: 9999, Start: start, End: start.Add(time.Hour), Title: "Sync"},
			wantCode: CodeRoomUnavailable,
		},
		{
			name:     "deactivated room",
			input:    CreateInput{RoomID: closed.ID, Start: start, End: start.Add(time.Hour), Title: "Sync"},
			wantCode: CodeRoomUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.CreateBooking(Actor{ID: owner.ID}, tt.input)
			if !IsCode(err, tt.wantCode) {
				t.Errorf("CreateBooking error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	var total int64
	if err := db.Model(&bookingModel.Booking{}).Count(&total).Error; err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	if total != 0 {
		t.Errorf("rejected requests must not persist bookings, found %d rows", total)
	}
}

func TestCreateBookingConflictAndAdjacency(t *testing.T) {
	planner, notifier := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)

	start := testNow.Add(2 * time.Hour)

	first, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start, End: start.Add(time.Hour), Title: "Standup",
	})
	if err != nil {
		t.Fatalf("first booking should succeed, got %v", err)
	}
	if first.Status != bookingModel.BookingStatusScheduled {
		t.Errorf("new booking status = %s, want %s", first.Status, bookingModel.BookingStatusScheduled)
	}
	if first.Reference == "" {
		t.Error("new booking must carry a reference")
	}

	// Overlapping window on the same room loses.
	_, err = planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start.Add(30 * time.Minute), End: start.Add(90 * time.Minute), Title: "Clash",
	})
	if !IsCode(err, CodeSlotTaken) {
		t.Errorf("overlapping request error = %v, want code %s", err, CodeSlotTaken)
	}

	// Back-to-back is allowed with no buffer configured.
	if _, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), Title: "Retro",
	}); err != nil {
		t.Errorf("adjacent booking should succeed, got %v", err)
	}

	if got := notifier.count(); got != 2 {
		t.Errorf("notifier fired %d times, want 2", got)
	}

	var events int64
	if err := db.Model(&bookingModel.BookingStatusEvent{}).Count(&events).Error; err != nil {
		t.Fatalf("failed to count status events: %v", err)
	}
	if events != 2 {
		t.Errorf("expected one scheduled event per booking, got %d", events)
	}
}

func TestCreateBookingBufferWidening(t *testing.T) {
	planner, _ := newTestPlanner(t, Config{
		MaxDuration:   8 * time.Hour,
		BufferMinutes: 15,
	})
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)

	// Existing meeting ends at +3h.
	start := testNow.Add(2 * time.Hour)
	end := testNow.Add(3 * time.Hour)
	if _, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start, End: end, Title: "Planning",
	}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	// Starting 14 minutes after it ends is still inside the turnover buffer.
	_, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: end.Add(14 * time.Minute), End: end.Add(time.Hour), Title: "Too close",
	})
	if !IsCode(err, CodeSlotTaken) {
		t.Errorf("request inside buffer error = %v, want code %s", err, CodeSlotTaken)
	}

	// Starting exactly at the buffer boundary is fine.
	b, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: end.Add(15 * time.Minute), End: end.Add(time.Hour + 15*time.Minute), Title: "Far enough",
	})
	if err != nil {
		t.Fatalf("request at buffer boundary should succeed, got %v", err)
	}

	// The stored window is never padded.
	var stored bookingModel.Booking
	if err := db.First(&stored, b.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if !stored.StartTime.Equal(end.Add(15 * time.Minute)) {
		t.Errorf("stored start = %v, want %v", stored.StartTime, end.Add(15*time.Minute))
	}
}

func TestUpdateBooking(t *testing.T) {
	planner, _ := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	other := seedEmployee(t, db, "other@example.com", "staff")
	admin := seedEmployee(t, db, "admin@example.com", "admin")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)

	start := testNow.Add(2 * time.Hour)
	b, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start, End: start.Add(time.Hour), Title: "Standup",
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	blocker, err := planner.CreateBooking(Actor{ID: other.ID}, CreateInput{
		RoomID: alpha.ID, Start: start.Add(2 * time.Hour), End: start.Add(3 * time.Hour), Title: "Review",
	})
	if err != nil {
		t.Fatalf("seed blocker failed: %v", err)
	}

	t.Run("stranger may not edit", func(t *testing.T) {
		newTitle := "Hijacked"
		_, err := planner.UpdateBooking(Actor{ID: other.ID}, UpdateInput{BookingID: b.ID, Title: &newTitle})
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("error = %v, want ErrNotPermitted", err)
		}
	})

	t.Run("keeping the same window does not conflict with itself", func(t *testing.T) {
		newTitle := "Daily standup"
		updated, err := planner.UpdateBooking(Actor{ID: owner.ID}, UpdateInput{BookingID: b.ID, Title: &newTitle})
		if err != nil {
			t.Fatalf("title-only update failed: %v", err)
		}
		if updated.Title != newTitle {
			t.Errorf("title = %q, want %q", updated.Title, newTitle)
		}
	})

	t.Run("moving onto another booking is rejected", func(t *testing.T) {
		newStart := start.Add(2 * time.Hour)
		newEnd := start.Add(3 * time.Hour)
		_, err := planner.UpdateBooking(Actor{ID: owner.ID}, UpdateInput{
			BookingID: b.ID, Start: &newStart, End: &newEnd,
		})
		if !IsCode(err, CodeSlotTaken) {
			t.Errorf("error = %v, want code %s", err, CodeSlotTaken)
		}
	})

	t.Run("moved window is revalidated", func(t *testing.T) {
		pastStart := testNow.Add(-time.Hour)
		_, err := planner.UpdateBooking(Actor{ID: owner.ID}, UpdateInput{BookingID: b.ID, Start: &pastStart})
		if !IsCode(err, CodePastWindow) {
			t.Errorf("error = %v, want code %s", err, CodePastWindow)
		}
	})

	t.Run("admin may edit any booking", func(t *testing.T) {
		newStart := start.Add(4 * time.Hour)
		newEnd := start.Add(5 * time.Hour)
		updated, err := planner.UpdateBooking(Actor{ID: admin.ID, Admin: true}, UpdateInput{
			BookingID: b.ID, Start: &newStart, End: &newEnd,
		})
		if err != nil {
			t.Fatalf("admin update failed: %v", err)
		}
		if !updated.StartTime.Equal(newStart) {
			t.Errorf("start = %v, want %v", updated.StartTime, newStart)
		}
	})

	t.Run("cancelled booking may not be edited", func(t *testing.T) {
		if err := planner.CancelBooking(blocker.ID, Actor{ID: other.ID}); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		newTitle := "Too late"
		_, err := planner.UpdateBooking(Actor{ID: other.ID}, UpdateInput{BookingID: blocker.ID, Title: &newTitle})
		if !errors.Is(err, ErrBookingFinal) {
			t.Errorf("error = %v, want ErrBookingFinal", err)
		}
	})
}

func TestCancelBooking(t *testing.T) {
	planner, notifier := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	other := seedEmployee(t, db, "other@example.com", "staff")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)

	start := testNow.Add(2 * time.Hour)
	b, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
		RoomID: alpha.ID, Start: start, End: start.Add(time.Hour), Title: "Standup",
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	if err := planner.CancelBooking(b.ID, Actor{ID: other.ID}); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("stranger cancel error = %v, want ErrNotPermitted", err)
	}

	if err := planner.CancelBooking(b.ID, Actor{ID: owner.ID}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Second cancel by the owner is a no-op.
	if err := planner.CancelBooking(b.ID, Actor{ID: owner.ID}); err != nil {
		t.Errorf("repeated cancel should be a no-op, got %v", err)
	}

	// Permission is checked before the idempotent no-op.
	if err := planner.CancelBooking(b.ID, Actor{ID: other.ID}); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("stranger cancel of a cancelled booking error = %v, want ErrNotPermitted", err)
	}

	// An admin may repeat the cancel without error.
	if err := planner.CancelBooking(b.ID, Actor{ID: other.ID, Admin: true}); err != nil {
		t.Errorf("admin repeated cancel should be a no-op, got %v", err)
	}

	var stored bookingModel.Booking
	if err := db.First(&stored, b.ID).Error; err != nil {
		t.Fatalf("cancelled booking must stay in the table: %v", err)
	}
	if stored.Status != bookingModel.BookingStatusCancelled {
		t.Errorf("status = %s, want %s", stored.Status, bookingModel.BookingStatusCancelled)
	}

	var cancelEvents int64
	err = db.Model(&bookingModel.BookingStatusEvent{}).
		Where("booking_id = ? AND status = ?", b.ID, bookingModel.BookingStatusCancelled).
		Count(&cancelEvents).Error
	if err != nil {
		t.Fatalf("failed to count cancel events: %v", err)
	}
	if cancelEvents != 1 {
		t.Errorf("cancel events = %d, want exactly 1", cancelEvents)
	}

	// The freed slot is immediately bookable again.
	if _, err := planner.CreateBooking(Actor{ID: other.ID}, CreateInput{
		RoomID: alpha.ID, Start: start, End: start.Add(time.Hour), Title: "Reclaimed",
	}); err != nil {
		t.Errorf("booking a freed slot should succeed, got %v", err)
	}

	// create + cancel + create, one notification each.
	if got := notifier.count(); got != 3 {
		t.Errorf("notifier fired %d times, want 3", got)
	}

	done := seedBooking(t, db, alpha.ID, owner.ID, start.Add(-4*time.Hour), start.Add(-3*time.Hour), bookingModel.BookingStatusCompleted)
	if err := planner.CancelBooking(done.ID, Actor{ID: owner.ID}); !errors.Is(err, ErrBookingFinal) {
		t.Errorf("cancelling a completed booking error = %v, want ErrBookingFinal", err)
	}
}

func TestCreateBookingConcurrentSingleWinner(t *testing.T) {
	planner, _ := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")
	alpha := seedRoom(t, db, "Alpha", 1, 6, true)

	start := testNow.Add(2 * time.Hour)
	const callers = 8

	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := planner.CreateBooking(Actor{ID: owner.ID}, CreateInput{
				RoomID: alpha.ID, Start: start, End: start.Add(time.Hour), Title: "Contested",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case IsCode(err, CodeSlotTaken):
			losses++
		default:
			t.Errorf("unexpected error under contention: %v", err)
		}
	}
	if wins != 1 || losses != callers-1 {
		t.Errorf("got %d winners and %d slot_taken, want 1 and %d", wins, losses, callers-1)
	}

	var total int64
	err := db.Model(&bookingModel.Booking{}).
		Where("room_id = ? AND status = ?", alpha.ID, bookingModel.BookingStatusScheduled).
		Count(&total).Error
	if err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	if total != 1 {
		t.Errorf("persisted scheduled bookings = %d, want 1", total)
	}
}

func TestFindAvailableRooms(t *testing.T) {
	planner, _ := newTestPlanner(t, DefaultConfig())
	db := planner.db
	owner := seedEmployee(t, db, "owner@example.com", "staff")

	alpha := seedRoom(t, db, "Alpha", 1, 4, true)
	beta := seedRoom(t, db, "Beta", 1, 10, true)
	seedRoom(t, db, "Cellar", 0, 20, false)
	gamma := seedRoom(t, db, "Gamma", 2, 6, true)

	start := testNow.Add(2 * time.Hour)
	end := start.Add(time.Hour)
	seedBooking(t, db, beta.ID, owner.ID, start, end, bookingModel.BookingStatusScheduled)
	// Non-blocking statuses leave the room available.
	seedBooking(t, db, gamma.ID, owner.ID, start, end, bookingModel.BookingStatusCancelled)

	t.Run("invalid window", func(t *testing.T) {
		if _, err := planner.FindAvailableRooms(end, start, 0); !IsCode(err, CodeInvalidWindow) {
			t.Errorf("error = %v, want code %s", err, CodeInvalidWindow)
		}
	})

	t.Run("busy and inactive rooms are excluded", func(t *testing.T) {
		rooms, err := planner.FindAvailableRooms(start, end, 0)
		if err != nil {
			t.Fatalf("FindAvailableRooms failed: %v", err)
		}
		wantIDs := []uint{alpha.ID, gamma.ID}
		if len(rooms) != len(wantIDs) {
			t.Fatalf("got %d rooms, want %d", len(rooms), len(wantIDs))
		}
		for i, want := range wantIDs {
			if rooms[i].ID != want {
				t.Errorf("rooms[%d].ID = %d, want %d", i, rooms[i].ID, want)
			}
		}
	})

	t.Run("capacity filter", func(t *testing.T) {
		rooms, err := planner.FindAvailableRooms(start, end, 5)
		if err != nil {
			t.Fatalf("FindAvailableRooms failed: %v", err)
		}
		if len(rooms) != 1 || rooms[0].ID != gamma.ID {
			t.Errorf("capacity 5 should leave only Gamma, got %v", rooms)
		}
	})

	t.Run("everything is free outside the busy window", func(t *testing.T) {
		rooms, err := planner.FindAvailableRooms(end, end.Add(time.Hour), 0)
		if err != nil {
			t.Fatalf("FindAvailableRooms failed: %v", err)
		}
		if len(rooms) != 3 {
			t.Errorf("got %d rooms, want 3", len(rooms))
		}
	})
}
