package models

import "github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"

// Vouch is a single endorsement: who vouched, and why. The target is the
// store key, not a field, so a vouch never disagrees with the record it
// lives in.
type Vouch struct {
	VoucherID domain.UserID `json:"userId"`
	Reason    string        `json:"reason"`
}

// RecordSet is the persisted list of accepted vouches for one target in one
// guild, in insertion order. The empty set and "no record" are equivalent.
//
// Stores never hold more than one entry per VoucherID.
type RecordSet struct {
	Vouches []Vouch `json:"vouches"`
}

// Count returns the number of distinct vouches.
func (rs RecordSet) Count() int { return len(rs.Vouches) }

// Has reports whether voucher already has an entry in the set.
func (rs RecordSet) Has(voucher domain.UserID) bool {
	for _, v := range rs.Vouches {
		if v.VoucherID == voucher {
			return true
		}
	}
	return false
}
