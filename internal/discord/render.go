package discord

import (
	"fmt"
	"strings"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

// RenderVouchOutcome turns a vouch command outcome into the interaction
// response. Rejections are ephemeral so failed attempts don't spam the
// channel; accepted vouches and promotions are public.
func RenderVouchOutcome(o vouch.Outcome, target domain.UserID, threshold int) Response {
	switch o.Kind {
	case vouch.OutcomeRejected:
		return EphemeralMessage(rejectMessage(o.Reason, target))

	case vouch.OutcomeBelowThreshold:
		return Message(fmt.Sprintf(
			"Vouch recorded for %s (%d of %d needed).",
			mention(target), o.Vouches.Count(), threshold,
		))

	case vouch.OutcomePromotionSucceeded:
		return Message(fmt.Sprintf(
			"%s is now vouched! 🎉\n%s",
			mention(target), vouchSummary(o.Vouches),
		))

	case vouch.OutcomePromotionFailed:
		return Message(fmt.Sprintf(
			"Vouch recorded for %s, but granting the role failed. An admin may need to step in, or the next vouch will retry.",
			mention(target),
		))

	default:
		// Unreachable as long as the service only emits the kinds above.
		return EphemeralMessage("Something went wrong. Please try again later.")
	}
}

// RenderVouchList formats the /vouches listing.
func RenderVouchList(set models.RecordSet, target domain.UserID) Response {
	if set.Count() == 0 {
		return EphemeralMessage(fmt.Sprintf("%s has no vouches yet.", mention(target)))
	}
	return EphemeralMessage(fmt.Sprintf(
		"%s has %d vouch(es):\n%s",
		mention(target), set.Count(), vouchSummary(set),
	))
}

// RenderRetract formats the /unvouch result.
func RenderRetract(removed bool, target domain.UserID) Response {
	if !removed {
		return EphemeralMessage(fmt.Sprintf("You had no vouch for %s.", mention(target)))
	}
	return EphemeralMessage(fmt.Sprintf("Your vouch for %s has been retracted.", mention(target)))
}

func rejectMessage(reason vouch.RejectReason, target domain.UserID) string {
	switch reason {
	case vouch.RejectNotEligible:
		return "I'm sorry, you must be vouched for to use this command."
	case vouch.RejectSelfVouch:
		return "You can't vouch for yourself."
	case vouch.RejectAlreadyPromoted:
		return fmt.Sprintf("%s is already vouched.", mention(target))
	case vouch.RejectAlreadyVouched:
		return fmt.Sprintf("You have already vouched for %s.", mention(target))
	case vouch.RejectInvalidReason:
		return "Please give a short, non-empty reason for your vouch."
	case vouch.RejectTransient:
		return "I'm sorry, I couldn't record that right now. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}

func vouchSummary(set models.RecordSet) string {
	lines := make([]string, 0, set.Count())
	for _, v := range set.Vouches {
		lines = append(lines, fmt.Sprintf("• %s: %s", mention(v.VoucherID), v.Reason))
	}
	return strings.Join(lines, "\n")
}

func mention(user domain.UserID) string {
	return fmt.Sprintf("<@%s>", user)
}
