package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/theleywin/linkup-backend/src/services"
)

// ok sends the success envelope with extra payload fields merged in.
func ok(c *fiber.Ctx, status int, payload fiber.Map) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	payload["success"] = true
	return c.Status(status).JSON(payload)
}

// fail maps a service error to its status code. Anything outside the service
// taxonomy is logged and answered as a 500.
func fail(c *fiber.Ctx, err error) error {
	var status int
	message := err.Error()

	switch services.KindOf(err) {
	case services.KindValidation, services.KindConflict:
		status = fiber.StatusBadRequest
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindForbidden:
		status = fiber.StatusForbidden
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		status = fiber.StatusInternalServerError
		message = "Server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
