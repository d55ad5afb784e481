package routes

import (
	"supper_server/controllers"
	"supper_server/services"

	"github.com/gorilla/mux"
)

// RegisterDinnerRoutes sets up routes for the group dinner flow under
// /api/dinner, plus its admin views.
func RegisterDinnerRoutes(r *mux.Router, dinnerService *services.DinnerService, adminToken string) {
	controller := controllers.NewDinnerController(dinnerService)

	dinnerRouter := r.PathPrefix("/api/dinner").Subrouter()
	dinnerRouter.HandleFunc("/requests", controller.CreateDinnerRequest).Methods("POST")

	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.HandleFunc("/dinner/requests", adminOnly(adminToken, controller.GetAllDinnerRequests)).Methods("GET")
	adminRouter.HandleFunc("/dinner/proposed", adminOnly(adminToken, controller.GetAllProposedDinners)).Methods("GET")
}
