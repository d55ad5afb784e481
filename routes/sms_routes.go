package routes

import (
	"supper_server/controllers"
	"supper_server/services"

	"github.com/gorilla/mux"
)

// RegisterSMSRoutes sets up the inbound SMS webhook under /api/sms.
func RegisterSMSRoutes(r *mux.Router, confirmationService *services.ConfirmationService) {
	controller := controllers.NewSMSController(confirmationService)

	smsRouter := r.PathPrefix("/api/sms").Subrouter()
	smsRouter.HandleFunc("/inbound", controller.HandleInbound).Methods("POST")
}
