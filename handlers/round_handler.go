package handlers

import (
	"net/http"

	"github.com/Dosada05/cricket-system/services"
)

type RoundHandler struct {
	roundService *services.RoundService
	scheduler    *services.SchedulerService
}

func NewRoundHandler(roundService *services.RoundService, scheduler *services.SchedulerService) *RoundHandler {
	return &RoundHandler{roundService: roundService, scheduler: scheduler}
}

func (h *RoundHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	var input services.CreateRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.roundService.CreateRound(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.roundService.GetRound(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoundHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.roundService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScheduleRound generates fixtures for every group of the round.
func (h *RoundHandler) ScheduleRound(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ScheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.RoundID = id

	round, err := h.scheduler.ScheduleRound(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoundHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.roundService.DeleteRound(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
