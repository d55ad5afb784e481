package services

import (
	"context"
	"log"
	"time"

	"supper_server/models"
	"supper_server/utils"

	"github.com/google/uuid"
)

// MemberService handles the waitlist intake that feeds identities into
// the matching flows.
type MemberService struct {
	Store MemberStore
	SMS   Notifier
}

// JoinWaitlist adds a phone to the club list and sends the welcome
// text. Duplicate joins are rejected by the store's key condition.
func (ms *MemberService) JoinWaitlist(ctx context.Context, phone, fullName string) (*models.Member, error) {
	if phone == "" {
		return nil, NewValidationError("phone is required")
	}

	formatted := utils.FormatPhoneE164(phone)
	if !utils.IsValidE164(formatted) {
		return nil, NewValidationError("invalid phone number")
	}

	member := &models.Member{
		Phone:     formatted,
		MemberID:  uuid.NewString(),
		FullName:  fullName,
		Status:    models.MemberStatusWaitlist,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := ms.Store.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	if !ms.SMS.Send(ctx, formatted, "You're on the Bay Area Supper Club list. We'll text you when memberships open.") {
		log.Printf("waitlist welcome not delivered to %s", utils.MaskPhone(formatted))
	}
	return member, nil
}

// CheckMemberStatus reports whether a phone is on the list and its
// status.
func (ms *MemberService) CheckMemberStatus(ctx context.Context, phone string) (string, bool, error) {
	formatted := utils.FormatPhoneE164(phone)
	member, err := ms.Store.GetMemberByPhone(ctx, formatted)
	if err != nil {
		return "", false, err
	}
	if member == nil {
		return "", false, nil
	}
	return member.Status, true, nil
}
