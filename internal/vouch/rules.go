package vouch

import (
	"errors"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

// Policy rejection errors. The service maps these onto user-facing reject
// reasons; they never cross the transport boundary as raw errors.
var (
	ErrNotEligible     = errors.New("requester does not hold the vouched role")
	ErrSelfVouch       = errors.New("requester and target are the same user")
	ErrAlreadyPromoted = errors.New("target already holds the vouched role")
)

// CanVouch decides whether a vouch request is admissible given role facts
// supplied by the caller. Pure domain logic - no I/O, no side effects.
//
// Check order is deliberate: eligibility (may the requester act at all)
// precedes self-vouch (is this particular action valid), which precedes the
// already-promoted check.
func CanVouch(requester, target domain.UserID, requesterTrusted, targetTrusted bool) error {
	if !requesterTrusted {
		return ErrNotEligible
	}
	if requester == target {
		return ErrSelfVouch
	}
	if targetTrusted {
		return ErrAlreadyPromoted
	}
	return nil
}

// ShouldPromote reports whether the record set has accumulated enough
// distinct vouches to attempt a role grant. Re-evaluable: any accepted vouch
// at or above the threshold triggers a grant attempt, not only the one that
// crosses it.
func ShouldPromote(set models.RecordSet, threshold int) bool {
	return set.Count() >= threshold
}
