package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/lib"
	"github.com/theleywin/linkup-backend/src/models"
	"github.com/theleywin/linkup-backend/src/services"
)

const userLocal = "user"

// Auth authenticates requests on private routes.
type Auth struct {
	users     *services.UserService
	jwtSecret string
}

func NewAuth(users *services.UserService, jwtSecret string) *Auth {
	return &Auth{users: users, jwtSecret: jwtSecret}
}

// ProtectRoute checks the bearer token, resolves it to a user document and
// attaches the user to the request context. Anything short of a valid token
// for an existing user is a 401.
func (a *Auth) ProtectRoute(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "Authorization token required")
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return unauthorized(c, "Invalid authorization header format")
	}

	userID, err := lib.VerifyJWT(token, a.jwtSecret)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	user, err := a.users.FindByID(c.Context(), objectID)
	if err != nil {
		return unauthorized(c, "User not found")
	}

	c.Locals(userLocal, user)
	return c.Next()
}

// CurrentUser returns the user attached by ProtectRoute.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
