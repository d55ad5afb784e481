package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"supper_server/models"
	"supper_server/utils"
)

// Reply kinds after normalization.
const (
	replyAffirmative = "AFFIRMATIVE"
	replyNegative    = "NEGATIVE"
	replyUnknown     = "UNRECOGNIZED"
)

// Webhook reply copy. An empty reply means the webhook answers with an
// empty response and the parties are notified over the gateway instead.
const (
	msgNothingPending = "No pending dinner match found."
	msgWaitingOnOther = "Got it. Waiting on the other person."
	msgBothConfirmed  = "Confirmed! We'll text you next steps shortly."
	msgDeclinerNotice = "No worries. You're back in the pool."
	msgOtherPassed    = "The other person passed. We'll keep looking."
	msgGroupConfirmed = "Great! You're confirmed. We'll send you details soon."
	msgGroupDeclined  = "Got it. We've removed you from this dinner. Feel free to request again anytime!"
	msgReplyYesOrNo   = "Reply YES to confirm or NO to pass."
)

// ConfirmationService is the reply protocol state machine. It owns no
// session state: every inbound message is resolved against the store
// ("most recent pending row for this identity"), which is what makes
// concurrent webhooks safe.
type ConfirmationService struct {
	Matches MatchStore
	Dinners DinnerStore
	SMS     Notifier
}

// ClassifyReply normalizes raw text and buckets it. A message starting
// with YES (or exactly Y) is affirmative, NO (or N) negative, anything
// else unrecognized.
func ClassifyReply(body string) string {
	message := strings.ToUpper(strings.TrimSpace(body))
	if strings.HasPrefix(message, "YES") || message == "Y" {
		return replyAffirmative
	}
	if strings.HasPrefix(message, "NO") || message == "N" {
		return replyNegative
	}
	return replyUnknown
}

// HandleInboundMessage processes one SMS reply and returns the short
// response to route back through the same channel. At most one pending
// record is resolved per message: the most recent of this identity's
// pending pair match and pending dinner membership.
func (cs *ConfirmationService) HandleInboundMessage(ctx context.Context, from, body string) (string, error) {
	if from == "" {
		return "", NewValidationError("missing sender identity")
	}

	match, err := cs.Matches.LatestPendingMatchForPhone(ctx, from)
	if err != nil {
		return "", err
	}
	member, err := cs.Dinners.LatestPendingMemberForPhone(ctx, from)
	if err != nil {
		return "", err
	}

	// Both flows pending for one identity: the newer row wins.
	if match != nil && member != nil {
		if member.CreatedAt > match.CreatedAt {
			match = nil
		} else {
			member = nil
		}
	}

	if match == nil && member == nil {
		// Defined steady state, not an error.
		return msgNothingPending, nil
	}

	kind := ClassifyReply(body)
	if kind == replyUnknown {
		return msgReplyYesOrNo, nil
	}

	if match != nil {
		return cs.handlePairReply(ctx, from, match, kind)
	}
	return cs.handleGroupReply(ctx, from, member, kind)
}

// handlePairReply drives one side of a pair match.
func (cs *ConfirmationService) handlePairReply(ctx context.Context, from string, match *models.PairMatch, kind string) (string, error) {
	if kind == replyNegative {
		ok, err := cs.Matches.CancelPairMatch(ctx, match, fmt.Sprintf("%s declined", from))
		if err != nil {
			return "", err
		}
		if !ok {
			// Someone else already moved the match on; nothing to undo.
			return msgNothingPending, nil
		}

		if !cs.SMS.Send(ctx, from, msgDeclinerNotice) {
			log.Printf("decline notice not delivered to %s", utils.MaskPhone(from))
		}
		other := match.OtherPhone(from)
		if !cs.SMS.Send(ctx, other, msgOtherPassed) {
			log.Printf("decline notice not delivered to %s", utils.MaskPhone(other))
		}
		log.Printf("match %s canceled by %s", match.MatchID, utils.MaskPhone(from))
		return "", nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stamped, err := cs.Matches.SetPairConfirmation(ctx, match.MatchID, from, now)
	if err != nil {
		return "", err
	}

	updated, err := cs.Matches.GetPairMatch(ctx, match.MatchID)
	if err != nil {
		return "", err
	}

	if !updated.BothConfirmed() {
		// Repeated YES lands here too (stamped=false): same waiting
		// answer, no second notification.
		return msgWaitingOnOther, nil
	}

	flipped, err := cs.Matches.ConfirmPairMatch(ctx, updated)
	if err != nil {
		return "", err
	}
	if !flipped {
		// The other webhook already ran the transition and notified.
		if !stamped {
			return msgNothingPending, nil
		}
		return "", nil
	}

	if !cs.SMS.Send(ctx, updated.PhoneA, msgBothConfirmed) {
		log.Printf("confirmation not delivered to %s", utils.MaskPhone(updated.PhoneA))
	}
	if !cs.SMS.Send(ctx, updated.PhoneB, msgBothConfirmed) {
		log.Printf("confirmation not delivered to %s", utils.MaskPhone(updated.PhoneB))
	}
	log.Printf("match %s fully confirmed", match.MatchID)
	return "", nil
}

// handleGroupReply drives one member of a proposed dinner. A decline
// removes only that member and reopens their request for backfill; the
// dinner stays PENDING with its remaining members untouched.
func (cs *ConfirmationService) handleGroupReply(ctx context.Context, from string, member *models.DinnerMember, kind string) (string, error) {
	if kind == replyNegative {
		if err := cs.Dinners.RemoveMember(ctx, member); err != nil {
			return "", err
		}
		log.Printf("declined: %s removed from dinner %s", utils.MaskPhone(from), member.DinnerID)
		return msgGroupDeclined, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	ok, err := cs.Dinners.ConfirmMember(ctx, member, now)
	if err != nil {
		return "", err
	}
	if !ok {
		// Already confirmed or the dinner moved on; no state change.
		return msgGroupConfirmed, nil
	}
	log.Printf("confirmed: %s for dinner %s", utils.MaskPhone(from), member.DinnerID)

	members, err := cs.Dinners.MembersForDinner(ctx, member.DinnerID)
	if err != nil {
		return "", err
	}
	for i := range members {
		if !members[i].Confirmed {
			return msgGroupConfirmed, nil
		}
	}

	flipped, err := cs.Dinners.ConfirmProposedDinner(ctx, member.DinnerID)
	if err != nil {
		return "", err
	}
	if flipped {
		// Downstream event publication happens outside the coordinator;
		// its job ends at the status flip.
		log.Printf("dinner %s fully confirmed", member.DinnerID)
	}
	return msgGroupConfirmed, nil
}
