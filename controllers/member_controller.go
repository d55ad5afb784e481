package controllers

import (
	"encoding/json"
	"net/http"

	"supper_server/services"
)

// MemberController handles HTTP requests for waitlist membership
type MemberController struct {
	MemberService *services.MemberService
}

// NewMemberController creates a new MemberController instance
func NewMemberController(memberService *services.MemberService) *MemberController {
	return &MemberController{MemberService: memberService}
}

// JoinWaitlist handles adding a phone to the waitlist
func (mc *MemberController) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Phone    string `json:"phone"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, err := mc.MemberService.JoinWaitlist(r.Context(), input.Phone, input.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"phone": member.Phone,
	})
}

// CheckStatus handles looking up a phone's membership status
func (mc *MemberController) CheckStatus(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "phone is required", http.StatusBadRequest)
		return
	}

	status, exists, err := mc.MemberService.CheckMemberStatus(r.Context(), phone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exists": exists,
		"status": status,
	})
}
