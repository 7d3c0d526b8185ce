package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/middleware"
)

func AuthRoutes(app *fiber.App, ctrl *controllers.AuthController, auth *middleware.Auth) {
	group := app.Group("/api/v1/auth")

	group.Post("/signup", ctrl.Signup)
	group.Post("/login", ctrl.Login)
	group.Get("/me", auth.ProtectRoute, ctrl.Me)
}
