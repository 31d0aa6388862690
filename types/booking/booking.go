package booking

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// BookingCreateRequest represents the request payload for creating a booking
type BookingCreateRequest struct {
	RoomID    uint   `json:"room_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=255"`
	Agenda    string `json:"agenda" validate:"omitempty"`
}

func (req *BookingCreateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// BookingUpdateRequest carries the fields that may change on an existing
// booking. Nil pointers keep the stored value.
type BookingUpdateRequest struct {
	BookingID uint    `json:"booking_id" validate:"required"`
	RoomID    *uint   `json:"room_id" validate:"omitempty"`
	StartTime *string `json:"start_time" validate:"omitempty"`
	EndTime   *string `json:"end_time" validate:"omitempty"`
	Title     *string `json:"title" validate:"omitempty,min=1,max=255"`
	Agenda    *string `json:"agenda" validate:"omitempty"`
}

func (req *BookingUpdateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// BookingCancelRequest represents the request payload for cancelling a booking
type BookingCancelRequest struct {
	BookingID uint `json:"booking_id" validate:"required"`
}

func (req *BookingCancelRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// ParseWindow parses the RFC3339 start/end strings of a create request.
func (req *BookingCreateRequest) ParseWindow() (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
