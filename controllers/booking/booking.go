package booking

import (
	"errors"
	"fmt"
	"strconv"

	"room-booking/logger"
	bookingModel "room-booking/models/booking"
	"room-booking/services/availability"
	"room-booking/services/booking_event"
	"room-booking/types"
	bookingTypes "room-booking/types/booking"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB      *gorm.DB
	Planner *availability.Planner
	Logger  *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, planner *availability.Planner, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:      db,
		Planner: planner,
		Logger:  asyncLogger,
	}
}

// Store creates a new booking
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	start, end, err := req.ParseWindow()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "start_time and end_time must be RFC3339 timestamps",
			Data:    nil,
		})
	}

	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	created, err := bc.Planner.CreateBooking(
		availability.Actor{ID: employee.ID, Admin: employee.IsAdmin()},
		availability.CreateInput{
			RoomID: req.RoomID,
			Start:  start,
			End:    end,
			Title:  req.Title,
			Agenda: req.Agenda,
		})
	if err != nil {
		return bc.respondPlannerError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking created successfully with ID: %d", created.ID))

	// Load the complete booking data with relationships
	var full bookingModel.Booking
	if err := bc.DB.Preload("Room").Preload("Owner").First(&full, created.ID).Error; err != nil {
		logger.Error("Failed to load created booking data", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Booking created but failed to retrieve complete data",
			Data:    nil,
		})
	}

	err = c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    full,
	})

	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return err
}

// Update changes the room, window or meta of an existing booking
func (bc *BookingController) Update(c *fiber.Ctx) error {
	var req bookingTypes.BookingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	in := availability.UpdateInput{
		BookingID: req.BookingID,
		RoomID:    req.RoomID,
		Title:     req.Title,
		Agenda:    req.Agenda,
	}
	if req.StartTime != nil {
		t, err := utils.ParseRFC3339(*req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
				Data:    nil,
			})
		}
		in.Start = &t
	}
	if req.EndTime != nil {
		t, err := utils.ParseRFC3339(*req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
				Data:    nil,
			})
		}
		in.End = &t
	}

	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	updated, err := bc.Planner.UpdateBooking(
		availability.Actor{ID: employee.ID, Admin: employee.IsAdmin()}, in)
	if err != nil {
		return bc.respondPlannerError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking %d updated", updated.ID))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking updated successfully",
		Data:    updated,
	})
}

// Cancel transitions a booking to cancelled
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	var req bookingTypes.BookingCancelRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	err = bc.Planner.CancelBooking(req.BookingID,
		availability.Actor{ID: employee.ID, Admin: employee.IsAdmin()})
	if err != nil {
		return bc.respondPlannerError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking %d cancelled", req.BookingID))

	err = c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    nil,
	})

	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return err
}

// Index lists the authenticated employee's bookings, optionally filtered to
// a single day via ?date=YYYY-MM-DD
func (bc *BookingController) Index(c *fiber.Ctx) error {
	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	q := bc.DB.Preload("Room").
		Where("owner_id = ?", employee.ID).
		Order("start_time ASC")

	if date := c.Query("date"); date != "" {
		dayStart, dayEnd, err := utils.DayWindow(date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
				Data:    nil,
			})
		}
		q = q.Where("start_time < ? AND end_time > ?", dayEnd, dayStart)
	}

	var bookings []bookingModel.Booking
	if err := q.Find(&bookings).Error; err != nil {
		logger.Error("Failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// History returns the status event trail for one booking
func (bc *BookingController) History(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var b bookingModel.Booking
	if err := bc.DB.First(&b, uint(bookingID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if b.OwnerID != employee.ID && !employee.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You can only view your own bookings",
			Data:    nil,
		})
	}

	events, err := booking_event.History(bc.DB, b.ID)
	if err != nil {
		logger.Error("Failed to load booking history", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking history retrieved successfully",
		Data:    events,
	})
}

// respondPlannerError translates planner failures into HTTP responses.
// BookingError codes are user errors; anything else is infrastructure.
func (bc *BookingController) respondPlannerError(c *fiber.Ctx, err error) error {
	if be, ok := availability.AsBookingError(err); ok {
		status := fiber.StatusBadRequest
		switch be.Code {
		case availability.CodeSlotTaken:
			status = fiber.StatusConflict
		case availability.CodeRoomUnavailable:
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: be.Message,
			Data:    map[string]string{"code": string(be.Code)},
		})
	}

	switch {
	case errors.Is(err, availability.ErrNotPermitted):
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: err.Error(),
			Data:    nil,
		})
	case errors.Is(err, availability.ErrBookingFinal):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: err.Error(),
			Data:    nil,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Booking not found",
			Data:    nil,
		})
	}

	logger.Error("Planner call failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Data:    nil,
	})
}
