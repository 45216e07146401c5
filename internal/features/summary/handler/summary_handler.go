package handler

import (
	"dhl-express-manager/internal/features/shipments/domain"
	"dhl-express-manager/internal/features/summary/service"

	"github.com/gofiber/fiber/v2"
)

// ShipmentSource looks up tracked shipments by tracking number.
type ShipmentSource interface {
	Get(trackingNumber string) (*domain.Shipment, error)
}

// SummaryHandler handles HTTP requests for shipment summaries.
type SummaryHandler struct {
	summaries *service.SummaryService
	shipments ShipmentSource
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaries *service.SummaryService, shipments ShipmentSource) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		shipments: shipments,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// SummaryResponse carries the generated summary text.
type SummaryResponse struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// GetSummary godoc
// @Summary Summarize a shipment's tracking state
// @Description Generates a short plain-language explanation of where the shipment is and what is happening to it
// @Tags summary
// @Produce json
// @Param id path string true "Tracking number"
// @Success 200 {object} SummaryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /shipments/{id}/summary [get]
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	sh, err := h.shipments.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	text, err := h.summaries.Summarize(c.UserContext(), sh)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: "summary generation failed",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(SummaryResponse{
		ID:      sh.ID,
		Summary: text,
	})
}
