package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/lib"
	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/services"
)

type AuthController struct {
	users     *services.UserService
	jwtSecret string
}

func NewAuthController(users *services.UserService, jwtSecret string) *AuthController {
	return &AuthController{users: users, jwtSecret: jwtSecret}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Signup registers an account and returns a token for it.
func (ctrl *AuthController) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := lib.ValidateStruct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := ctrl.users.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := lib.GenerateJWT(user.Id.Hex(), ctrl.jwtSecret)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates by email and password.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := lib.ValidateStruct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := ctrl.users.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid email or password",
			})
		}
		return fail(c, err)
	}

	token, err := lib.GenerateJWT(user.Id.Hex(), ctrl.jwtSecret)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's own document.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, fiber.Map{
		"user": middleware.CurrentUser(c),
	})
}
