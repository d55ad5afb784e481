package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"supper_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for the pairwise match flow
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// CreateMatchRequest handles a new pairwise dinner request
func (mc *MatchController) CreateMatchRequest(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	request, matched, err := mc.MatchService.CreateMatchRequest(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"requestId": request.RequestID,
		"matched":   matched,
	})
}

// GetAllMatchRequests handles the admin listing of match requests
func (mc *MatchController) GetAllMatchRequests(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	requests, err := mc.MatchService.GetAllMatchRequests(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// GetAllPairMatches handles the admin listing of pair matches
func (mc *MatchController) GetAllPairMatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := mc.MatchService.GetAllPairMatches(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// CancelMatch handles the admin release of a stale pending match
func (mc *MatchController) CancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]
	if matchID == "" {
		http.Error(w, "match id is required", http.StatusBadRequest)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a bare POST releases with the default reason.
	json.NewDecoder(r.Body).Decode(&input)

	if err := mc.MatchService.CancelMatch(r.Context(), matchID, input.Reason); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Match released",
	})
}
