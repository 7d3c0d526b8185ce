package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/middleware"
)

func NotificationRoutes(app *fiber.App, ctrl *controllers.NotificationController, auth *middleware.Auth) {
	group := app.Group("/api/v1/notifications", auth.ProtectRoute)

	group.Get("/", ctrl.List)
	group.Put("/read-all", ctrl.MarkAllRead)
	group.Put("/:id/read", ctrl.MarkRead)
	group.Delete("/:id", ctrl.Delete)
}
