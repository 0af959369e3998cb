package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/pkg/battle"
	"github.com/triviaquest/engine/pkg/campaign"
)

// CampaignView matches the API's campaign response: the save plus the
// running battle, if any.
type CampaignView struct {
	Campaign *campaign.State  `json:"campaign"`
	Battle   *battle.Snapshot `json:"battle,omitempty"`
}

// StepResult matches the API's step response.
type StepResult struct {
	Position      campaign.Position `json:"position"`
	Zone          string            `json:"zone,omitempty"`
	Moved         bool              `json:"moved"`
	BattleStarted bool              `json:"battle_started"`
	OpponentID    string            `json:"opponent_id,omitempty"`
	Battle        *battle.Snapshot  `json:"battle,omitempty"`
}

// BattleActionResult matches the API's battle action response.
type BattleActionResult struct {
	Accepted bool             `json:"accepted"`
	Battle   *battle.Snapshot `json:"battle,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createCampaign(client *http.Client, baseURL string) (*CampaignView, error) {
	resp, err := client.Post(baseURL+"/v1/campaign", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create campaign: %s", errorResp.Error)
	}

	var view CampaignView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("failed to parse campaign response: %w", err)
	}
	return &view, nil
}

func getCampaign(client *http.Client, baseURL string, campaignID uuid.UUID) (*CampaignView, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/campaign/%s", baseURL, campaignID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get campaign: %s", errorResp.Error)
	}

	var view CampaignView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("failed to parse campaign response: %w", err)
	}
	return &view, nil
}

func stepCampaign(client *http.Client, baseURL string, campaignID uuid.UUID, direction string) (*StepResult, error) {
	reqBody := map[string]string{"direction": direction}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/campaign/%s/step", baseURL, campaignID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("step failed: %s", errorResp.Error)
	}

	var result StepResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse step response: %w", err)
	}
	return &result, nil
}

func submitAnswer(client *http.Client, baseURL string, campaignID uuid.UUID, choice int) (*BattleActionResult, error) {
	reqBody := map[string]int{"choice": choice}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/campaign/%s/battle/answer", baseURL, campaignID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return parseBattleAction(resp)
}

func fleeBattle(client *http.Client, baseURL string, campaignID uuid.UUID) (*BattleActionResult, error) {
	resp, err := client.Post(
		fmt.Sprintf("%s/v1/campaign/%s/battle/flee", baseURL, campaignID),
		"application/json",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return parseBattleAction(resp)
}

func parseBattleAction(resp *http.Response) (*BattleActionResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("battle action failed: %s", errorResp.Error)
	}

	var result BattleActionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse battle response: %w", err)
	}
	return &result, nil
}

func resetCampaign(client *http.Client, baseURL string, campaignID uuid.UUID) (*CampaignView, error) {
	resp, err := client.Post(
		fmt.Sprintf("%s/v1/campaign/%s/reset", baseURL, campaignID),
		"application/json",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to reset campaign: %s", errorResp.Error)
	}

	var view CampaignView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("failed to parse campaign response: %w", err)
	}
	return &view, nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// listenToSSE connects to the SSE endpoint and streams events to a channel
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, campaignID uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/events/campaign/%s", baseURL, campaignID.String())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()

		if line == "" {
			// Empty line signals end of event
			if currentEvent.Type != "" {
				eventChan <- currentEvent
				currentEvent = SSEEvent{}
			}
			continue
		}

		// Parse SSE format
		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataJSON := strings.TrimPrefix(line, "data: ")
			var data map[string]interface{}
			if err := json.Unmarshal([]byte(dataJSON), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}

	return nil
}
