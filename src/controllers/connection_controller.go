package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

type SendRequestBody struct {
	Message string `json:"message" validate:"max=300"`
}

// SendRequest sends a connection request to the user in the path.
func (ctrl *ConnectionController) SendRequest(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID format")
	}

	var body SendRequestBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	user := middleware.CurrentUser(c)
	request, err := ctrl.connections.SendRequest(c.Context(), user, targetID, body.Message)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "Connection request sent successfully",
		"data":    request,
	})
}

// Withdraw cancels the caller's pending request to the user in the path.
func (ctrl *ConnectionController) Withdraw(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID format")
	}

	user := middleware.CurrentUser(c)
	if err := ctrl.connections.Withdraw(c.Context(), user.Id, targetID); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Connection request withdrawn",
	})
}

// Accept accepts a pending request addressed to the caller.
func (ctrl *ConnectionController) Accept(c *fiber.Ctx) error {
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return badRequest(c, "Invalid request ID format")
	}

	user := middleware.CurrentUser(c)
	request, err := ctrl.connections.Accept(c.Context(), requestID, user)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Connection request accepted",
		"data":    request,
	})
}

// Reject rejects a pending request addressed to the caller.
func (ctrl *ConnectionController) Reject(c *fiber.Ctx) error {
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return badRequest(c, "Invalid request ID format")
	}

	user := middleware.CurrentUser(c)
	request, err := ctrl.connections.Reject(c.Context(), requestID, user)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Connection request rejected",
		"data":    request,
	})
}

// PendingRequests lists requests awaiting the caller's decision.
func (ctrl *ConnectionController) PendingRequests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requests, err := ctrl.connections.PendingRequests(c.Context(), user.Id)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(requests),
		"data":  requests,
	})
}

// ListConnections returns the caller's current connections.
func (ctrl *ConnectionController) ListConnections(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	connections, err := ctrl.connections.ListConnections(c.Context(), user)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(connections),
		"data":  connections,
	})
}

// Status reports the relation between the caller and the user in the path.
func (ctrl *ConnectionController) Status(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID format")
	}

	user := middleware.CurrentUser(c)
	status, requestID, err := ctrl.connections.Status(c.Context(), user, targetID)
	if err != nil {
		return fail(c, err)
	}

	payload := fiber.Map{"status": status}
	if !requestID.IsZero() {
		payload["requestId"] = requestID
	}
	return ok(c, fiber.StatusOK, payload)
}

// RemoveConnection disconnects the caller from the user in the path.
func (ctrl *ConnectionController) RemoveConnection(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID format")
	}

	user := middleware.CurrentUser(c)
	if err := ctrl.connections.RemoveConnection(c.Context(), user, targetID); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Connection removed successfully",
	})
}
