package handler

import (
	"errors"

	"dhl-express-manager/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles HTTP requests for the shipment collection.
type ShipmentHandler struct {
	tracker *service.Tracker
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(tracker *service.Tracker) *ShipmentHandler {
	return &ShipmentHandler{
		tracker: tracker,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// AddShipmentsRequest carries the raw tracking number input from the client.
type AddShipmentsRequest struct {
	// TrackingNumbers is free-form text; numbers may be separated by commas,
	// spaces or newlines.
	TrackingNumbers string `json:"tracking_numbers"`
}

// AssigneeRequest carries a PIC name.
type AssigneeRequest struct {
	Name string `json:"name"`
}

// ListShipments godoc
// @Summary List tracked shipments
// @Description Returns every tracked shipment, newest first, with local annotations
// @Tags shipments
// @Produce json
// @Success 200 {array} domain.Shipment
// @Router /shipments [get]
func (h *ShipmentHandler) ListShipments(c *fiber.Ctx) error {
	return c.JSON(h.tracker.Shipments())
}

// AddShipments godoc
// @Summary Track new shipments
// @Description Parses the raw input, resolves each new tracking number against the carrier and adds it to the collection
// @Tags shipments
// @Accept json
// @Produce json
// @Param request body AddShipmentsRequest true "Raw tracking numbers"
// @Success 200 {object} service.AddReport
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /shipments [post]
func (h *ShipmentHandler) AddShipments(c *fiber.Ctx) error {
	var req AddShipmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	report, err := h.tracker.AddShipments(c.UserContext(), req.TrackingNumbers)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrEmptyInput):
			status = fiber.StatusBadRequest
		case errors.Is(err, service.ErrAlreadyTracked):
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(report)
}

// RefreshShipments godoc
// @Summary Refresh all tracked shipments
// @Description Re-resolves every shipment sequentially, preserving local annotations
// @Tags shipments
// @Produce json
// @Success 200 {object} service.RefreshReport
// @Router /shipments/refresh [post]
func (h *ShipmentHandler) RefreshShipments(c *fiber.Ctx) error {
	report, err := h.tracker.RefreshAll(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.JSON(report)
}

// GetStats godoc
// @Summary Dashboard counters
// @Description Returns total, in-transit, delivered, exception and collected counts
// @Tags shipments
// @Produce json
// @Success 200 {object} service.Stats
// @Router /shipments/stats [get]
func (h *ShipmentHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.tracker.Stats())
}

// GetShipment godoc
// @Summary Get one shipment
// @Description Returns the shipment with the given tracking number
// @Tags shipments
// @Produce json
// @Param id path string true "Tracking number"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	sh, err := h.tracker.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.JSON(sh)
}

// DeleteShipment godoc
// @Summary Stop tracking a shipment
// @Description Removes the shipment and its annotations from the collection
// @Tags shipments
// @Param id path string true "Tracking number"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [delete]
func (h *ShipmentHandler) DeleteShipment(c *fiber.Ctx) error {
	if err := h.tracker.Delete(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAssignee godoc
// @Summary Assign a PIC to a shipment
// @Description Appends the person in charge to the shipment's assignee list
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "Tracking number"
// @Param request body AssigneeRequest true "PIC name"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/assignees [post]
func (h *ShipmentHandler) AddAssignee(c *fiber.Ctx) error {
	var req AssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	sh, err := h.tracker.AddAssignee(c.Params("id"), req.Name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.JSON(sh)
}

// RemoveAssignee godoc
// @Summary Remove a PIC from a shipment
// @Description Removes the first exact match of the given name from the assignee list
// @Tags shipments
// @Produce json
// @Param id path string true "Tracking number"
// @Param name query string true "PIC name"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/assignees [delete]
func (h *ShipmentHandler) RemoveAssignee(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "name query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	sh, err := h.tracker.RemoveAssignee(c.Params("id"), name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.JSON(sh)
}

// ToggleCollected godoc
// @Summary Toggle a shipment's collected flag
// @Description Marks the shipment as collected, or reverts it if already collected
// @Tags shipments
// @Produce json
// @Param id path string true "Tracking number"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/collected [post]
func (h *ShipmentHandler) ToggleCollected(c *fiber.Ctx) error {
	sh, err := h.tracker.ToggleCollected(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	return c.JSON(sh)
}
