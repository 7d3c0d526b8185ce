package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/middleware"
)

func ConnectionRoutes(app *fiber.App, ctrl *controllers.ConnectionController, auth *middleware.Auth) {
	group := app.Group("/api/v1/connections", auth.ProtectRoute)

	group.Post("/request/:userId", ctrl.SendRequest)
	group.Delete("/request/:userId", ctrl.Withdraw)
	group.Put("/accept/:requestId", ctrl.Accept)
	group.Put("/reject/:requestId", ctrl.Reject)
	group.Get("/requests", ctrl.PendingRequests)
	group.Get("/status/:userId", ctrl.Status)
	group.Get("/", ctrl.ListConnections)
	group.Delete("/:userId", ctrl.RemoveConnection)
}
