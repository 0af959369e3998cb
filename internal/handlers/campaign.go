package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/internal/game"
	"github.com/triviaquest/engine/pkg/battle"
	"github.com/triviaquest/engine/pkg/campaign"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CampaignResponse is the full client view of a campaign: the save
// plus the running battle, if any.
type CampaignResponse struct {
	Campaign *campaign.State  `json:"campaign"`
	Battle   *battle.Snapshot `json:"battle,omitempty"`
}

// CampaignHandler serves all campaign routes.
type CampaignHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

func NewCampaignHandler(manager *game.Manager, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP routes campaign requests.
// Routes:
// POST /v1/campaign                     - Create a new campaign
// GET /v1/campaign/{id}                 - Read campaign state
// DELETE /v1/campaign/{id}              - Delete campaign
// POST /v1/campaign/{id}/reset          - Reset campaign to a fresh start
// POST /v1/campaign/{id}/step           - Move one tile
// GET /v1/campaign/{id}/battle          - Read battle state
// POST /v1/campaign/{id}/battle/answer  - Submit an answer
// POST /v1/campaign/{id}/battle/flee    - Flee the battle
func (h *CampaignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/campaign"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST to create a campaign.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	segments := strings.Split(path, "/")
	id, err := uuid.Parse(segments[0])
	if err != nil {
		h.logger.Warn("Invalid campaign ID", "id", segments[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	action := strings.Join(segments[1:], "/")
	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case action == "reset" && r.Method == http.MethodPost:
		h.handleReset(w, r, id)
	case action == "step" && r.Method == http.MethodPost:
		h.handleStep(w, r, id)
	case action == "battle" && r.Method == http.MethodGet:
		h.handleBattleRead(w, r, id)
	case action == "battle/answer" && r.Method == http.MethodPost:
		h.handleAnswer(w, r, id)
	case action == "battle/flee" && r.Method == http.MethodPost:
		h.handleFlee(w, r, id)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown campaign route")
	}
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create campaign", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, CampaignResponse{Campaign: s.State()})
}

func (h *CampaignHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s := h.getSession(w, r, id)
	if s == nil {
		return
	}

	h.writeJSON(w, CampaignResponse{
		Campaign: s.State(),
		Battle:   s.BattleSnapshot(),
	})
}

func (h *CampaignHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s := h.getSession(w, r, id); s == nil {
		return
	}

	h.manager.Remove(id)
	if err := h.manager.DeleteSave(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete campaign", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) handleReset(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.manager.Reset(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to reset campaign", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to reset campaign")
		return
	}

	h.writeJSON(w, CampaignResponse{Campaign: s.State()})
}

// getSession resolves the session or writes the error response and
// returns nil.
func (h *CampaignHandler) getSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) *game.Session {
	s, err := h.manager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, game.ErrCampaignNotFound) {
			h.writeError(w, http.StatusNotFound, "Campaign not found")
			return nil
		}
		h.logger.Error("Failed to load campaign", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load campaign")
		return nil
	}
	return s
}

func (h *CampaignHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *CampaignHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
