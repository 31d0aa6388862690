package room

import "github.com/go-playground/validator/v10"

// RoomStoreRequest represents the request payload for creating a room
type RoomStoreRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Floor     int    `json:"floor" validate:"omitempty"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
	Equipment string `json:"equipment" validate:"omitempty"`
	Notes     string `json:"notes" validate:"omitempty"`
}

func (req *RoomStoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// RoomUpdateRequest represents the request payload for updating a room
type RoomUpdateRequest struct {
	RoomID    uint    `json:"room_id" validate:"required"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Floor     *int    `json:"floor" validate:"omitempty"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gt=0"`
	Equipment *string `json:"equipment" validate:"omitempty"`
	Notes     *string `json:"notes" validate:"omitempty"`
	IsActive  *bool   `json:"is_active" validate:"omitempty"`
}

func (req *RoomUpdateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// AvailabilitySearchRequest represents the query parameters for the
// available-room search.
type AvailabilitySearchRequest struct {
	StartTime   string `json:"start_time" query:"start" validate:"required"`
	EndTime     string `json:"end_time" query:"end" validate:"required"`
	MinCapacity int    `json:"min_capacity" query:"capacity" validate:"omitempty,gte=0"`
}

func (req *AvailabilitySearchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
