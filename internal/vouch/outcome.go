package vouch

import "github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"

// OutcomeKind tags the result of one vouch command.
type OutcomeKind string

const (
	// OutcomeRejected: the vouch was not recorded; Reason says why.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeBelowThreshold: the vouch was recorded, no grant attempted.
	OutcomeBelowThreshold OutcomeKind = "below_threshold"
	// OutcomePromotionSucceeded: the vouch was recorded and the role granted.
	OutcomePromotionSucceeded OutcomeKind = "promotion_succeeded"
	// OutcomePromotionFailed: the vouch was recorded but the grant call
	// failed; the vouch is NOT rolled back.
	OutcomePromotionFailed OutcomeKind = "promotion_failed"
)

// RejectReason enumerates why a vouch was refused.
type RejectReason string

const (
	RejectNotEligible     RejectReason = "not_eligible"
	RejectSelfVouch       RejectReason = "self_vouch"
	RejectAlreadyPromoted RejectReason = "already_promoted"
	RejectAlreadyVouched  RejectReason = "already_vouched"
	RejectInvalidReason   RejectReason = "invalid_reason"
	// RejectTransient covers storage or platform lookups failing; the whole
	// command is safe to retry.
	RejectTransient RejectReason = "transient"
)

// Outcome is the single, fully-formed result the transport layer renders.
// Exactly one kind is set per invocation; the formatting layer switches on
// Kind exhaustively.
type Outcome struct {
	Kind   OutcomeKind
	Reason RejectReason // set when Kind == OutcomeRejected

	// Vouches is the record set after the mutation, when one happened.
	Vouches models.RecordSet

	// GrantStatus carries diagnostic detail when Kind == OutcomePromotionFailed.
	GrantStatus string
}

func rejected(reason RejectReason) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}
