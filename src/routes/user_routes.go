package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/middleware"
)

func UserRoutes(app *fiber.App, ctrl *controllers.UserController, auth *middleware.Auth) {
	group := app.Group("/api/v1/users")

	group.Get("/", ctrl.GetAll)
	group.Get("/search", ctrl.Search)
	group.Put("/profile", auth.ProtectRoute, ctrl.UpdateProfile)
	group.Get("/:id", ctrl.GetProfile)
	group.Put("/:id", auth.ProtectRoute, ctrl.UpdateProfile)
}
