package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with errors.Is.
//
// These represent factual states about stored records, not validation
// failures:
// - ErrAlreadyUsed: the unique slot is taken (a voucher already has an entry)
// - ErrUnavailable: backing storage failed or is unreachable
//
// A missing record is not an error here: stores read it as an empty set.
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
