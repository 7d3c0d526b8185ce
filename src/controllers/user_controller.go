package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/models"
	"github.com/theleywin/linkup-backend/src/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetAll returns all users. Public read.
func (ctrl *UserController) GetAll(c *fiber.Ctx) error {
	users, err := ctrl.users.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(users),
		"users": users,
	})
}

// Search matches users by name, email or headline substring.
func (ctrl *UserController) Search(c *fiber.Ctx) error {
	users, err := ctrl.users.Search(c.Context(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(users),
		"users": users,
	})
}

// GetProfile returns a user's profile and their posts. Public read.
func (ctrl *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID format")
	}

	user, posts, err := ctrl.users.GetProfile(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"user":  user,
		"posts": posts,
	})
}

// UpdateProfile applies a partial multipart update to the caller's profile.
// Served on both PUT /users/profile and PUT /users/:id; a foreign :id is
// rejected. Text fields are form values; skills, jobInterests and education
// arrive as JSON strings and replace the stored arrays wholesale; files come
// in the profilePicture, bannerImage and resume fields.
func (ctrl *UserController) UpdateProfile(c *fiber.Ctx) error {
	actingUser := middleware.CurrentUser(c)

	targetID := actingUser.Id
	if param := c.Params("id"); param != "" && param != "profile" {
		var err error
		targetID, err = primitive.ObjectIDFromHex(param)
		if err != nil {
			return badRequest(c, "Invalid user ID format")
		}
	}

	update := services.ProfileUpdate{Files: map[string]*services.Upload{}}

	setString := func(field string, dst **string) {
		if v := c.FormValue(field); v != "" {
			*dst = &v
		}
	}
	setString("name", &update.Name)
	setString("headline", &update.Headline)
	setString("location", &update.Location)
	setString("bio", &update.Bio)

	if v := c.FormValue("skills"); v != "" {
		var skills []string
		if err := json.Unmarshal([]byte(v), &skills); err != nil {
			return badRequest(c, "skills must be a JSON array of strings")
		}
		update.Skills = &skills
	}
	if v := c.FormValue("jobInterests"); v != "" {
		var interests []string
		if err := json.Unmarshal([]byte(v), &interests); err != nil {
			return badRequest(c, "jobInterests must be a JSON array of strings")
		}
		update.JobInterests = &interests
	}
	if v := c.FormValue("education"); v != "" {
		var education []models.Education
		if err := json.Unmarshal([]byte(v), &education); err != nil {
			return badRequest(c, "education must be a JSON array")
		}
		update.Education = &education
	}
	if v := c.FormValue("onboardingComplete"); v != "" {
		complete := v == "true"
		update.OnboardingComplete = &complete
	}

	for _, field := range []string{"profilePicture", "bannerImage", "resume"} {
		file, closer, err := formUpload(c, field)
		if err != nil {
			return fail(c, err)
		}
		if closer != nil {
			defer closer.Close()
		}
		if file != nil {
			update.Files[field] = file
		}
	}

	user, err := ctrl.users.UpdateProfile(c.Context(), targetID, actingUser, update)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
		"data":    user,
	})
}
