package notification

import (
	"errors"
	"strconv"
	"time"

	"room-booking/logger"
	notificationModel "room-booking/models/notification"
	"room-booking/types"
	"room-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationController lets employees read back their booking notifications
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// Index lists the authenticated employee's notifications, newest first
func (nc *NotificationController) Index(c *fiber.Ctx) error {
	employee, err := utils.CurrentEmployee(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var notifications []notificationModel.Notification
	err = nc.DB.Where("employee_id = ?", employee.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		logger.Error("Failed to list notifications", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkRead acknowledges a single notification
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid notification id",
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

	var notice notificationModel.Notification
	err = nc.DB.Where("id = ? AND employee_id = ?", uint(notificationID), employee.ID).
		First(&notice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Notification not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find notification", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if notice.ReadAt == nil {
		now := time.Now()
		notice.ReadAt = &now
		if err := nc.DB.Save(&notice).Error; err != nil {
			logger.Error("Failed to mark notification as read", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to mark notification as read",
				Data:    nil,
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notification marked as read",
		Data:    notice,
	})
}
