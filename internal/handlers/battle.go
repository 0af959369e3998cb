package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/internal/game"
	"github.com/triviaquest/engine/pkg/battle"
)

// AnswerRequest submits one answer choice.
type AnswerRequest struct {
	Choice int `json:"choice"`
}

// BattleActionResponse reports whether the input was accepted and the
// battle state afterwards.
type BattleActionResponse struct {
	Accepted bool             `json:"accepted"`
	Battle   *battle.Snapshot `json:"battle,omitempty"`
}

func (h *CampaignHandler) handleBattleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s := h.getSession(w, r, id)
	if s == nil {
		return
	}

	snap := s.BattleSnapshot()
	if snap == nil {
		h.writeError(w, http.StatusNotFound, "No battle in progress")
		return
	}
	h.writeJSON(w, snap)
}

func (h *CampaignHandler) handleAnswer(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	s := h.getSession(w, r, id)
	if s == nil {
		return
	}

	accepted, err := s.Answer(req.Choice)
	if err != nil {
		if errors.Is(err, game.ErrNoBattle) {
			h.writeError(w, http.StatusConflict, "No battle in progress")
			return
		}
		h.logger.Error("Answer failed", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Answer failed")
		return
	}

	h.writeJSON(w, BattleActionResponse{
		Accepted: accepted,
		Battle:   s.BattleSnapshot(),
	})
}

func (h *CampaignHandler) handleFlee(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s := h.getSession(w, r, id)
	if s == nil {
		return
	}

	accepted, err := s.Flee()
	if err != nil {
		if errors.Is(err, game.ErrNoBattle) {
			h.writeError(w, http.StatusConflict, "No battle in progress")
			return
		}
		h.logger.Error("Flee failed", "campaign", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Flee failed")
		return
	}

	h.writeJSON(w, BattleActionResponse{
		Accepted: accepted,
		Battle:   s.BattleSnapshot(),
	})
}
