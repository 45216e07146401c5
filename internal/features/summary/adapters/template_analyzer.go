package adapters

import (
	"context"
	"fmt"
	"strings"

	"dhl-express-manager/internal/features/shipments/domain"
)

// TemplateAnalyzer renders a deterministic summary without calling any model.
// Used when no Gemini key is configured and as the fallback when the model
// call fails.
type TemplateAnalyzer struct{}

// NewTemplateAnalyzer creates a new TemplateAnalyzer.
func NewTemplateAnalyzer() *TemplateAnalyzer {
	return &TemplateAnalyzer{}
}

// Analyze implements ports.Analyzer. It never fails.
func (TemplateAnalyzer) Analyze(ctx context.Context, shipment *domain.Shipment) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Shipment %s", shipment.ID)
	origin := shipment.Origin.Address.Locality
	destination := shipment.Destination.Address.Locality
	if origin != "" && destination != "" {
		fmt.Fprintf(&b, " from %s to %s", origin, destination)
	}

	status := shipment.Status.Description
	if status == "" {
		status = shipment.Status.Code
	}
	fmt.Fprintf(&b, " is currently: %s.", status)

	if len(shipment.Events) > 0 {
		latest := shipment.Events[0]
		fmt.Fprintf(&b, " Latest scan: %s", latest.Description)
		if latest.ServiceArea != "" {
			fmt.Fprintf(&b, " (%s)", latest.ServiceArea)
		}
		b.WriteString(".")
	}

	if shipment.Collected {
		b.WriteString(" The item has been collected.")
	}

	return b.String(), nil
}
