package handlers

import (
	"net/http"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/services"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name   string  `json:"name"`
		Role   *string `json:"role"`
		TeamID *int    `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player := &models.Player{Name: input.Name, Role: input.Role, TeamID: input.TeamID}
	if err := h.playerService.CreatePlayer(r.Context(), player); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayer returns the player together with the cumulative statistics the
// aggregator maintains.
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"player":       player,
		"best_bowling": player.Stats.BestBowling(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
