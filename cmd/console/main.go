package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	// The event stream stays open indefinitely, so it gets its own
	// client without a timeout.
	sseClient := &http.Client{}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	var view *CampaignView
	var err error
	if len(os.Args) > 1 {
		// Resume an existing campaign by id
		id, parseErr := uuid.Parse(os.Args[1])
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "Invalid campaign ID: %v\n", parseErr)
			os.Exit(1)
		}
		view, err = getCampaign(client, cfg.APIBaseURL, id)
	} else {
		view, err = createCampaign(client, cfg.APIBaseURL)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start campaign: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, sseClient, view),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
