package adapters

import (
	"context"
	"fmt"
	"strings"

	"dhl-express-manager/internal/features/shipments/domain"

	"google.golang.org/genai"
)

// maxPromptEvents caps how much history is sent to the model.
const maxPromptEvents = 5

// GeminiAnalyzer generates shipment summaries using Google's Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a new Gemini-backed analyzer.
func NewGeminiAnalyzer(apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiAnalyzer{
		client: client,
		model:  model,
	}, nil
}

// Analyze implements ports.Analyzer.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, shipment *domain.Shipment) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(buildPrompt(shipment)),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini analysis failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// buildPrompt renders the shipment state into the analysis prompt, including
// at most the latest maxPromptEvents history entries.
func buildPrompt(shipment *domain.Shipment) string {
	var events strings.Builder
	for i, ev := range shipment.Events {
		if i >= maxPromptEvents {
			break
		}
		area := ev.ServiceArea
		if area == "" {
			area = "Unknown Loc"
		}
		fmt.Fprintf(&events, "%s: %s at %s\n",
			ev.Timestamp.Format("2006-01-02 15:04"), ev.Description, area)
	}

	return fmt.Sprintf(`You are a helpful logistics assistant.
Analyze the following DHL tracking history for tracking number %s.

Current Status: %s
Recent Events:
%s
Please provide a short, friendly summary (max 2-3 sentences) in simple English explaining the status to the customer.
If there are any potential delays or technical terms (like 'Clearance Event'), explain them briefly.`,
		shipment.ID, shipment.Status.Description, events.String())
}
