package routes

import (
	"room-booking/constants"
	"room-booking/controllers/auth"
	"room-booking/controllers/booking"
	"room-booking/controllers/notification"
	"room-booking/controllers/room"
	"room-booking/logger"
	"room-booking/middleware"
	"room-booking/services/availability"
	"room-booking/services/notifier"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	cfg := availability.ConfigFromEnv()
	notifierService := notifier.NewServiceFromEnv(db)
	planner := availability.NewPlanner(db, notifierService, cfg, availability.SystemClock())

	authController := auth.NewAuthController(db, asyncLogger)
	bookingController := booking.NewBookingController(db, planner, asyncLogger)
	roomController := room.NewRoomController(db, planner, cfg.BufferMinutes)
	notificationController := notification.NewNotificationController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "room-booking",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)
	api.Post("/register", authController.Register)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.RequireAuthentication())
	authGroup.Get("/profile", authController.Profile)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings").Use(middleware.RequireAuthentication())

	bookingGroup.Get("/", bookingController.Index)
	bookingGroup.Post("/create", bookingController.Store)
	bookingGroup.Post("/update", bookingController.Update)
	bookingGroup.Post("/cancel", bookingController.Cancel)
	bookingGroup.Get("/:id/history", bookingController.History)

	/*=============================================================================
	| Room Routes
	===============================================================================*/
	roomGroup := api.Group("/rooms").Use(middleware.RequireAuthentication())

	roomGroup.Get("/", roomController.Index)
	roomGroup.Get("/available", roomController.Available)
	roomGroup.Get("/:id/availability", roomController.CheckAvailability)

	roomGroup.Post("/create", middleware.RequireRoles(
		constants.RoleAdmin,
	), roomController.Store)

	roomGroup.Post("/update", middleware.RequireRoles(
		constants.RoleAdmin,
	), roomController.Update)

	/*=============================================================================
	| Notification Routes
	===============================================================================*/
	notificationGroup := api.Group("/notifications").Use(middleware.RequireAuthentication())

	notificationGroup.Get("/", notificationController.Index)
	notificationGroup.Post("/:id/read", notificationController.MarkRead)
}
