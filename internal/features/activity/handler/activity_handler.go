package handler

import (
	"dhl-express-manager/internal/features/activity/service"

	"github.com/gofiber/fiber/v2"
)

// ActivityHandler handles HTTP requests for the activity log.
type ActivityHandler struct {
	recorder *service.Recorder
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(recorder *service.Recorder) *ActivityHandler {
	return &ActivityHandler{
		recorder: recorder,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// ListLogs godoc
// @Summary List activity log entries
// @Description Returns activity entries newest first, optionally capped by limit
// @Tags activity
// @Produce json
// @Param limit query int false "Maximum number of entries (0 or absent means all)"
// @Success 200 {array} domain.Entry
// @Failure 400 {object} ErrorResponse
// @Router /logs [get]
func (h *ActivityHandler) ListLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "limit must not be negative",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(h.recorder.Entries(limit))
}
