package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/middleware"
)

func PostRoutes(app *fiber.App, ctrl *controllers.PostController, auth *middleware.Auth) {
	group := app.Group("/api/v1/posts")

	group.Get("/", ctrl.GetAll)
	group.Get("/feed", auth.ProtectRoute, ctrl.Feed)
	group.Get("/:id", ctrl.Get)
	group.Post("/", auth.ProtectRoute, ctrl.Create)
	group.Put("/:id", auth.ProtectRoute, ctrl.Update)
	group.Delete("/:id", auth.ProtectRoute, ctrl.Delete)
	group.Post("/:id/like", auth.ProtectRoute, ctrl.Like)
	group.Post("/:id/comment", auth.ProtectRoute, ctrl.AddComment)
	group.Delete("/:id/comment/:commentId", auth.ProtectRoute, ctrl.DeleteComment)
}
