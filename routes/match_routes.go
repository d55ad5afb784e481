package routes

import (
	"supper_server/controllers"
	"supper_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for the pairwise match flow under
// /api/match, plus its admin views.
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, adminToken string) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/requests", controller.CreateMatchRequest).Methods("POST")

	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.HandleFunc("/match/requests", adminOnly(adminToken, controller.GetAllMatchRequests)).Methods("GET")
	adminRouter.HandleFunc("/matches", adminOnly(adminToken, controller.GetAllPairMatches)).Methods("GET")
	adminRouter.HandleFunc("/matches/{id}/cancel", adminOnly(adminToken, controller.CancelMatch)).Methods("POST")
}
