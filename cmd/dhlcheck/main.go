package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/shipments/adapters"
)

// dhlcheck is a one-shot probe: resolve a single tracking number against the
// DHL Unified API and print the normalized snapshot as JSON. Useful for
// verifying an API key before pointing the server at it.
func main() {
	if len(os.Args) < 2 {
		fmt.Println(`{"error": "Please provide a tracking number as an argument"}`)
		return
	}
	trackingNumber := os.Args[1]

	apiKey := os.Getenv("DHL_API_KEY")
	if apiKey == "" {
		fmt.Println(`{"error": "DHL_API_KEY is not set"}`)
		os.Exit(1)
	}

	baseURL := os.Getenv("DHL_API_URL")
	if baseURL == "" {
		baseURL = "https://api-eu.dhl.com/track/shipments"
	}

	if err := logger.Init("production", "error", ""); err != nil {
		fmt.Printf("{\"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := adapters.NewDHLAdapter(baseURL, apiKey).Track(ctx, trackingNumber)
	if err != nil {
		fmt.Printf("{\"error\": %q}\n", err.Error())
		os.Exit(1)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Printf("{\"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(out))
}
