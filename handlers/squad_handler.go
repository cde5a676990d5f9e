package handlers

import (
	"net/http"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/services"
)

type SquadHandler struct {
	squadService *services.SquadService
}

func NewSquadHandler(squadService *services.SquadService) *SquadHandler {
	return &SquadHandler{squadService: squadService}
}

func (h *SquadHandler) GetSquad(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	squad, err := h.squadService.GetSquad(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"squad": squad}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SquadHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	squads, err := h.squadService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"squads": squads}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SquadHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.SquadStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.squadService.SetStatus(r.Context(), id, input.Status); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "squad status updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SquadHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	squadID, err := getIDFromURL(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.squadService.RemovePlayer(r.Context(), squadID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SquadHandler) DeleteSquad(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.squadService.DeleteSquad(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
