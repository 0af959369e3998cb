package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/internal/game"
	"github.com/triviaquest/engine/pkg/worldmap"
)

// StepRequest moves the player one tile.
type StepRequest struct {
	Direction string `json:"direction"`
}

func (h *CampaignHandler) handleStep(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	dir, err := worldmap.ParseDirection(req.Direction)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "direction must be one of north, south, east, west")
		return
	}

	s := h.getSession(w, r, id)
	if s == nil {
		return
	}

	res, err := s.Move(r.Context(), dir)
	if err != nil {
		if errors.Is(err, game.ErrBattleInProgress) {
			h.writeError(w, http.StatusConflict, "Cannot move during a battle")
			return
		}
		h.logger.Error("Step failed", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Step failed")
		return
	}

	h.writeJSON(w, res)
}
