package availability

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	bookingModel "room-booking/models/booking"
	roomModel "room-booking/models/room"
	"room-booking/services/booking_event"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultMaxBookingHours = 8
	timeDisplayFormat      = "2006-01-02 15:04"
)

// Config holds the temporal business rules the planner enforces.
type Config struct {
	// MaxDuration caps how long a single booking may run.
	MaxDuration time.Duration
	// BufferMinutes pads every window symmetrically for conflict checks,
	// modelling room turnover time. The stored window is never padded.
	BufferMinutes int
}

func DefaultConfig() Config {
	return Config{MaxDuration: defaultMaxBookingHours * time.Hour}
}

// ConfigFromEnv reads MAX_BOOKING_HOURS and ROOM_BUFFER_MINUTES, falling back
// to the defaults when unset or malformed.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("MAX_BOOKING_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.MaxDuration = time.Duration(hours) * time.Hour
		}
	}
	if v := os.Getenv("ROOM_BUFFER_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes >= 0 {
			cfg.BufferMinutes = minutes
		}
	}
	return cfg
}

// Clock abstracts "now" so temporal rules are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Notifier is the sink invoked once per successful create, update and
// cancel. Fire-and-forget: implementations must not block the caller and a
// failed notification never affects the booking.
type Notifier interface {
	Notify(employeeID uint, message string)
}

// Actor is the request-scoped identity performing a planner call.
type Actor struct {
	ID    uint
	Admin bool
}

// CreateInput carries a booking request into the planner.
type CreateInput struct {
	RoomID uint
	Start  time.Time
	End    time.Time
	Title  string
	Agenda string
}

// UpdateInput carries changes to an existing booking. Nil fields keep the
// stored value.
type UpdateInput struct {
	BookingID uint
	RoomID    *uint
	Start     *time.Time
	End       *time.Time
	Title     *string
	Agenda    *string
}

// Planner enforces the booking business rules and performs availability
// search. The check-then-create race is closed by a per-room mutex held
// across the conflict check and the write: under concurrent conflicting
// requests within a process, exactly one caller wins and the rest fail
// with SlotTaken. On postgres the check also locks candidate rows FOR
// UPDATE, which keeps them from changing mid-transaction but does not
// cover the empty-result case; running multiple processes against one
// database needs a store-level guard such as an exclusion constraint on
// (room_id, timerange).
type Planner struct {
	db      *gorm.DB
	checker *ConflictChecker
	notify  Notifier
	cfg     Config
	clock   Clock

	roomLocks sync.Map // roomID -> *sync.Mutex
}

func NewPlanner(db *gorm.DB, notify Notifier, cfg Config, clock Clock) *Planner {
	if clock == nil {
		clock = SystemClock()
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = defaultMaxBookingHours * time.Hour
	}
	return &Planner{
		db:      db,
		checker: NewConflictChecker(db),
		notify:  notify,
		cfg:     cfg,
		clock:   clock,
	}
}

// Checker exposes the conflict checker for read-only availability queries.
func (p *Planner) Checker() *ConflictChecker {
	return p.checker
}

// CreateBooking validates the requested window, checks the padded window for
// conflicts and persists the booking as scheduled, all as one atomic unit.
func (p *Planner) CreateBooking(actor Actor, in CreateInput) (*bookingModel.Booking, error) {
	if err := p.validateWindow(in.Start, in.End); err != nil {
		return nil, err
	}
	rm, err := p.activeRoom(in.RoomID)
	if err != nil {
		return nil, err
	}

	mu := p.lockRoom(rm.ID)
	mu.Lock()
	defer mu.Unlock()

	created := bookingModel.Booking{
		Reference: uuid.NewString(),
		RoomID:    rm.ID,
		OwnerID:   actor.ID,
		StartTime: in.Start,
		EndTime:   in.End,
		Title:     in.Title,
		Agenda:    in.Agenda,
		Status:    bookingModel.BookingStatusScheduled,
		CreatedBy: strconv.FormatUint(uint64(actor.ID), 10),
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		padStart, padEnd := ApplyBuffer(in.Start, in.End, p.cfg.BufferMinutes)
		taken, err := hasConflict(tx, rm.ID, padStart, padEnd, 0, true)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken()
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return booking_event.AppendStatusEvent(tx, created.ID, created.Status, created.CreatedBy)
	})
	if err != nil {
		return nil, err
	}

	p.sendNotification(actor.ID, fmt.Sprintf("Booking confirmed: %s, %s - %s",
		rm.DisplayName(),
		created.StartTime.Format(timeDisplayFormat),
		created.EndTime.Format(timeDisplayFormat)))

	return &created, nil
}

// UpdateBooking re-runs the full validation pipeline against the updated
// fields, excluding the booking itself from the conflict check. Only the
// owner or an admin may edit, and only while the booking is still scheduled.
func (p *Planner) UpdateBooking(actor Actor, in UpdateInput) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := p.db.First(&b, in.BookingID).Error; err != nil {
		return nil, err
	}
	if !actor.Admin && b.OwnerID != actor.ID {
		return nil, ErrNotPermitted
	}
	if !b.Status.CanBeUpdated() {
		return nil, ErrBookingFinal
	}

	if in.RoomID != nil {
		b.RoomID = *in.RoomID
	}
	if in.Start != nil {
		b.StartTime = *in.Start
	}
	if in.End != nil {
		b.EndTime = *in.End
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Agenda != nil {
		b.Agenda = *in.Agenda
	}

	if err := p.validateWindow(b.StartTime, b.EndTime); err != nil {
		return nil, err
	}
	rm, err := p.activeRoom(b.RoomID)
	if err != nil {
		return nil, err
	}

	mu := p.lockRoom(rm.ID)
	mu.Lock()
	defer mu.Unlock()

	b.UpdatedBy = strconv.FormatUint(uint64(actor.ID), 10)

	err = p.db.Transaction(func(tx *gorm.DB) error {
		padStart, padEnd := ApplyBuffer(b.StartTime, b.EndTime, p.cfg.BufferMinutes)
		taken, err := hasConflict(tx, rm.ID, padStart, padEnd, b.ID, true)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken()
		}
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}

	p.sendNotification(b.OwnerID, fmt.Sprintf("Booking updated: %s, %s - %s",
		rm.DisplayName(),
		b.StartTime.Format(timeDisplayFormat),
		b.EndTime.Format(timeDisplayFormat)))

	return &b, nil
}

// CancelBooking transitions a booking to cancelled. Only the owner or an
// admin may cancel; for them it is idempotent, a second cancel is a no-op.
// Cancellation never needs a conflict re-check, and the row is kept, never
// deleted.
func (p *Planner) CancelBooking(bookingID uint, actor Actor) error {
	var b bookingModel.Booking
	if err := p.db.First(&b, bookingID).Error; err != nil {
		return err
	}
	if !actor.Admin && b.OwnerID != actor.ID {
		return ErrNotPermitted
	}
	if b.Status == bookingModel.BookingStatusCancelled {
		return nil
	}
	if b.Status == bookingModel.BookingStatusCompleted {
		return ErrBookingFinal
	}

	actorRef := strconv.FormatUint(uint64(actor.ID), 10)
	err := p.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND status <> ?", b.ID, bookingModel.BookingStatusCancelled).
			Updates(map[string]interface{}{
				"status":     bookingModel.BookingStatusCancelled,
				"updated_by": actorRef,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a cancel race; the booking is already cancelled.
			return nil
		}
		return booking_event.AppendStatusEvent(tx, b.ID, bookingModel.BookingStatusCancelled, actorRef)
	})
	if err != nil {
		return err
	}

	p.sendNotification(b.OwnerID, fmt.Sprintf("Booking cancelled: %s - %s",
		b.StartTime.Format(timeDisplayFormat),
		b.EndTime.Format(timeDisplayFormat)))

	return nil
}

// FindAvailableRooms returns the active rooms with capacity >= minCapacity
// that are free for the buffer-padded window, ordered by (floor, name, id).
// One batched booking query covers all candidate rooms; overlap filtering
// happens in memory.
func (p *Planner) FindAvailableRooms(start, end time.Time, minCapacity int) ([]roomModel.Room, error) {
	if !end.After(start) {
		return nil, errInvalidWindow()
	}

	var rooms []roomModel.Room
	err := p.db.
		Where("is_active = ? AND capacity >= ?", true, minCapacity).
		Order("floor ASC, name ASC, id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	ids := make([]uint, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}

	padStart, padEnd := ApplyBuffer(start, end, p.cfg.BufferMinutes)
	var busy []bookingModel.Booking
	err = p.db.
		Where("room_id IN ? AND status IN ?", ids, blockingStatusStrings()).
		Where("start_time < ? AND end_time > ?", padEnd, padStart).
		Find(&busy).Error
	if err != nil {
		return nil, err
	}

	takenRooms := make(map[uint]struct{}, len(busy))
	for _, b := range busy {
		takenRooms[b.RoomID] = struct{}{}
	}

	available := make([]roomModel.Room, 0, len(rooms))
	for _, r := range rooms {
		if _, taken := takenRooms[r.ID]; !taken {
			available = append(available, r)
		}
	}
	return available, nil
}

func (p *Planner) validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return errInvalidWindow()
	}
	if start.Before(p.clock.Now()) {
		return errPastWindow()
	}
	if end.Sub(start) > p.cfg.MaxDuration {
		return errDurationExceeded(p.cfg.MaxDuration)
	}
	return nil
}

// activeRoom resolves the room and rejects missing or deactivated ones.
func (p *Planner) activeRoom(roomID uint) (*roomModel.Room, error) {
	var rm roomModel.Room
	if err := p.db.First(&rm, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoomUnavailable()
		}
		return nil, err
	}
	if !rm.IsActive {
		return nil, errRoomUnavailable()
	}
	return &rm, nil
}

func (p *Planner) lockRoom(roomID uint) *sync.Mutex {
	v, _ := p.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (p *Planner) sendNotification(employeeID uint, message string) {
	if p.notify == nil {
		return
	}
	p.notify.Notify(employeeID, message)
}
