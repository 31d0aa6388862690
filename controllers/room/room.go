package room

import (
	"errors"
	"fmt"
	"strconv"

	"room-booking/logger"
	roomModel "room-booking/models/room"
	"room-booking/services/availability"
	"room-booking/types"
	roomTypes "room-booking/types/room"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoomController handles room listing, administration and availability search
type RoomController struct {
	DB            *gorm.DB
	Planner       *availability.Planner
	BufferMinutes int
}

func NewRoomController(db *gorm.DB, planner *availability.Planner, bufferMinutes int) *RoomController {
	return &RoomController{
		DB:            db,
		Planner:       planner,
		BufferMinutes: bufferMinutes,
	}
}

// Index lists all rooms ordered the same way as availability search
func (rc *RoomController) Index(c *fiber.Ctx) error {
	var rooms []roomModel.Room
	if err := rc.DB.Order("floor ASC, name ASC, id ASC").Find(&rooms).Error; err != nil {
		logger.Error("Failed to list rooms", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rooms retrieved successfully",
		Data:    rooms,
	})
}

// Store creates a new room (admin only)
func (rc *RoomController) Store(c *fiber.Ctx) error {
	var req roomTypes.RoomStoreRequest
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

	room := roomModel.Room{
		Name:      req.Name,
		Floor:     req.Floor,
		Capacity:  req.Capacity,
		Equipment: req.Equipment,
		Notes:     req.Notes,
		IsActive:  true,
	}
	if err := rc.DB.Create(&room).Error; err != nil {
		logger.Error("Failed to create room", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create room",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Room created: %s", room.DisplayName()))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Room created successfully",
		Data:    room,
	})
}

// Update changes room attributes, including deactivation (admin only)
func (rc *RoomController) Update(c *fiber.Ctx) error {
	var req roomTypes.RoomUpdateRequest
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

	var room roomModel.Room
	if err := rc.DB.First(&room, req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find room", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		room.Equipment = *req.Equipment
	}
	if req.Notes != nil {
		room.Notes = *req.Notes
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := rc.DB.Save(&room).Error; err != nil {
		logger.Error("Failed to update room", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update room",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room updated successfully",
		Data:    room,
	})
}

// Available searches for rooms free in the requested window:
// GET /rooms/available?start=...&end=...&capacity=N
func (rc *RoomController) Available(c *fiber.Ctx) error {
	req := roomTypes.AvailabilitySearchRequest{
		StartTime:   c.Query("start"),
		EndTime:     c.Query("end"),
		MinCapacity: c.QueryInt("capacity"),
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "start and end query parameters are required",
			Data:    nil,
		})
	}

	start, err := utils.ParseRFC3339(req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}
	end, err := utils.ParseRFC3339(req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	rooms, err := rc.Planner.FindAvailableRooms(start, end, req.MinCapacity)
	if err != nil {
		if availability.IsCode(err, availability.CodeInvalidWindow) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
				Data:    nil,
			})
		}
		logger.Error("Availability search failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Available rooms retrieved successfully",
		Data:    rooms,
	})
}

// CheckAvailability answers whether one room is free for a window:
// GET /rooms/:id/availability?start=...&end=...
func (rc *RoomController) CheckAvailability(c *fiber.Ctx) error {
	roomID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room id",
			Data:    nil,
		})
	}

	start, err := utils.ParseRFC3339(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}
	end, err := utils.ParseRFC3339(c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}
	if !end.After(start) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "end must be after start",
			Data:    nil,
		})
	}

	padStart, padEnd := availability.ApplyBuffer(start, end, rc.BufferMinutes)
	conflict, err := rc.Planner.Checker().HasConflict(uint(roomID), padStart, padEnd, 0)
	if err != nil {
		logger.Error("Conflict check failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Availability checked successfully",
		Data: map[string]interface{}{
			"room_id":   roomID,
			"available": !conflict,
		},
	})
}
