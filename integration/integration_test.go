//go:build integration
// +build integration

// End-to-end tests against a running API. Start the server first:
//
//	go run ./cmd/api
//	go test -tags integration ./integration/...
//
// The target is taken from API_BASE_URL, defaulting to localhost:8080.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var baseURL = "http://localhost:8080"

func TestMain(m *testing.M) {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		baseURL = url
	}
	fmt.Printf("Running Trivia Quest integration tests against %s\n", baseURL)
	os.Exit(m.Run())
}

var client = &http.Client{Timeout: 30 * time.Second}

type campaignView struct {
	Campaign struct {
		ID       string `json:"id"`
		Map      string `json:"map"`
		Zone     string `json:"zone"`
		Position struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"position"`
		Stats struct {
			Level         int `json:"level"`
			Gold          int `json:"gold"`
			CurrentHealth int `json:"current_health"`
			MaxHealth     int `json:"max_health"`
		} `json:"stats"`
	} `json:"campaign"`
	Battle *battleView `json:"battle"`
}

type battleView struct {
	State          string `json:"state"`
	OpponentID     string `json:"opponent_id"`
	OpponentHealth int    `json:"opponent_health"`
	Question       *struct {
		Prompt  string   `json:"prompt"`
		Choices []string `json:"choices"`
	} `json:"question"`
}

type stepView struct {
	Moved         bool        `json:"moved"`
	BattleStarted bool        `json:"battle_started"`
	Zone          string      `json:"zone"`
	Battle        *battleView `json:"battle"`
	Position      struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"position"`
}

func doJSON(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
		}
	}
	return resp.StatusCode
}

func createCampaign(t *testing.T) *campaignView {
	t.Helper()
	var view campaignView
	status := doJSON(t, http.MethodPost, "/v1/campaign", nil, &view)
	require.Equal(t, http.StatusCreated, status)
	t.Cleanup(func() {
		doJSON(t, http.MethodDelete, "/v1/campaign/"+view.Campaign.ID, nil, nil)
	})
	return &view
}

func step(t *testing.T, id, direction string) *stepView {
	t.Helper()
	var res stepView
	status := doJSON(t, http.MethodPost, "/v1/campaign/"+id+"/step", map[string]string{"direction": direction}, &res)
	require.Equal(t, http.StatusOK, status)
	return &res
}

func TestHealth(t *testing.T) {
	resp, err := client.Get(baseURL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCampaignLifecycle(t *testing.T) {
	view := createCampaign(t)
	require.NotEmpty(t, view.Campaign.ID)
	require.Equal(t, 1, view.Campaign.Stats.Level)
	require.Equal(t, view.Campaign.Stats.MaxHealth, view.Campaign.Stats.CurrentHealth)

	var read campaignView
	status := doJSON(t, http.MethodGet, "/v1/campaign/"+view.Campaign.ID, nil, &read)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, view.Campaign.ID, read.Campaign.ID)
	require.Equal(t, view.Campaign.Position, read.Campaign.Position)
}

func TestSafeZoneMovement(t *testing.T) {
	view := createCampaign(t)

	// The spawn zone is safe: pace back and forth, no battle may start.
	for i := 0; i < 40; i++ {
		dir := "east"
		if i%2 == 1 {
			dir = "west"
		}
		res := step(t, view.Campaign.ID, dir)
		require.False(t, res.BattleStarted, "battle started in a safe zone on pace %d", i)
	}
}

func TestInvalidDirection(t *testing.T) {
	view := createCampaign(t)
	status := doJSON(t, http.MethodPost, "/v1/campaign/"+view.Campaign.ID+"/step", map[string]string{"direction": "upwards"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestEncounterAndFlee(t *testing.T) {
	view := createCampaign(t)
	id := view.Campaign.ID

	// Walk south out of the safe zone, then pace until an encounter
	// fires. Fixed spawns sit far from this corner of the map.
	var battleStarted bool
	for i := 0; i < 5 && !battleStarted; i++ {
		res := step(t, id, "south")
		battleStarted = res.BattleStarted
	}
	for i := 0; i < 400 && !battleStarted; i++ {
		dir := "east"
		if i%2 == 1 {
			dir = "west"
		}
		res := step(t, id, dir)
		battleStarted = res.BattleStarted
	}
	require.True(t, battleStarted, "no random encounter after 400 paces outside the safe zone")

	// Movement is locked during the battle.
	status := doJSON(t, http.MethodPost, "/v1/campaign/"+id+"/step", map[string]string{"direction": "east"}, nil)
	require.Equal(t, http.StatusConflict, status)

	// Wait through the intro for the first question.
	var battle battleView
	require.Eventually(t, func() bool {
		status := doJSON(t, http.MethodGet, "/v1/campaign/"+id+"/battle", nil, &battle)
		return status == http.StatusOK && battle.Question != nil
	}, 15*time.Second, 250*time.Millisecond, "question never arrived")
	require.Len(t, battle.Question.Choices, 4)

	var fled struct {
		Accepted bool `json:"accepted"`
	}
	status = doJSON(t, http.MethodPost, "/v1/campaign/"+id+"/battle/flee", nil, &fled)
	require.Equal(t, http.StatusOK, status)
	require.True(t, fled.Accepted)

	// The battle is over and movement works again.
	require.Eventually(t, func() bool {
		status := doJSON(t, http.MethodPost, "/v1/campaign/"+id+"/step", map[string]string{"direction": "east"}, nil)
		return status == http.StatusOK
	}, 5*time.Second, 250*time.Millisecond)
}

func TestResetKeepsID(t *testing.T) {
	view := createCampaign(t)
	step(t, view.Campaign.ID, "east")

	var reset campaignView
	status := doJSON(t, http.MethodPost, "/v1/campaign/"+view.Campaign.ID+"/reset", nil, &reset)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, view.Campaign.ID, reset.Campaign.ID)
	require.Equal(t, view.Campaign.Position, reset.Campaign.Position)
}

func TestDeleteCampaign(t *testing.T) {
	var view campaignView
	status := doJSON(t, http.MethodPost, "/v1/campaign", nil, &view)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, http.MethodDelete, "/v1/campaign/"+view.Campaign.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	status = doJSON(t, http.MethodGet, "/v1/campaign/"+view.Campaign.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, status)
}
