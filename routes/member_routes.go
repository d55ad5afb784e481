package routes

import (
	"supper_server/controllers"
	"supper_server/services"

	"github.com/gorilla/mux"
)

// RegisterMemberRoutes sets up routes for waitlist membership under
// /api/members.
func RegisterMemberRoutes(r *mux.Router, memberService *services.MemberService) {
	controller := controllers.NewMemberController(memberService)

	memberRouter := r.PathPrefix("/api/members").Subrouter()
	memberRouter.HandleFunc("/waitlist", controller.JoinWaitlist).Methods("POST")
	memberRouter.HandleFunc("/status", controller.CheckStatus).Methods("GET")
}
