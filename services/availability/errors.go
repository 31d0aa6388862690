package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode discriminates the expected, recoverable booking failures.
// Anything else coming out of the planner is an infrastructure error.
type ErrorCode string

const (
	CodeInvalidWindow    ErrorCode = "invalid_window"
	CodePastWindow       ErrorCode = "past_window"
	CodeDurationExceeded ErrorCode = "duration_exceeded"
	CodeRoomUnavailable  ErrorCode = "room_unavailable"
	CodeSlotTaken        ErrorCode = "slot_taken"
)

// BookingError is a business-rule rejection. Callers are expected to switch
// on Code; the message is a safe default for user-facing output.
type BookingError struct {
	Code    ErrorCode
	Message string
}

func (e *BookingError) Error() string {
	return e.Message
}

// IsCode reports whether err is a BookingError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var be *BookingError
	return errors.As(err, &be) && be.Code == code
}

// AsBookingError unwraps err into a BookingError, if it is one.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func errInvalidWindow() *BookingError {
	return &BookingError{Code: CodeInvalidWindow, Message: "end time must be after start time"}
}

func errPastWindow() *BookingError {
	return &BookingError{Code: CodePastWindow, Message: "booking cannot start in the past"}
}

func errDurationExceeded(max time.Duration) *BookingError {
	return &BookingError{
		Code:    CodeDurationExceeded,
		Message: fmt.Sprintf("booking cannot be longer than %s", max),
	}
}

func errRoomUnavailable() *BookingError {
	return &BookingError{Code: CodeRoomUnavailable, Message: "room does not exist or is not active"}
}

func errSlotTaken() *BookingError {
	return &BookingError{Code: CodeSlotTaken, Message: "this room is already booked for the selected time"}
}

// Failures outside the BookingError taxonomy.
var (
	// ErrNotPermitted is returned when the acting employee is neither the
	// booking owner nor an admin.
	ErrNotPermitted = errors.New("not permitted to modify this booking")

	// ErrBookingFinal is returned when editing a cancelled or completed booking.
	ErrBookingFinal = errors.New("booking is in a final state and cannot be changed")
)
