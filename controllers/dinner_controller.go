package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"supper_server/services"
)

// DinnerController handles HTTP requests for the group dinner flow
type DinnerController struct {
	DinnerService *services.DinnerService
}

// NewDinnerController creates a new DinnerController instance
func NewDinnerController(dinnerService *services.DinnerService) *DinnerController {
	return &DinnerController{DinnerService: dinnerService}
}

// CreateDinnerRequest handles a new group dinner request
func (dc *DinnerController) CreateDinnerRequest(w http.ResponseWriter, r *http.Request) {
	var input services.CreateDinnerRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	request, err := dc.DinnerService.CreateDinnerRequest(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"requestId": request.RequestID,
		"message":   "We'll text you when we find a match.",
	})
}

// GetAllDinnerRequests handles the admin listing of dinner requests
func (dc *DinnerController) GetAllDinnerRequests(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	requests, err := dc.DinnerService.GetAllDinnerRequests(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// GetAllProposedDinners handles the admin listing of proposed dinners
func (dc *DinnerController) GetAllProposedDinners(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	dinners, err := dc.DinnerService.GetAllProposedDinners(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dinners": dinners,
	})
}
