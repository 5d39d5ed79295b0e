// Package store persists per-target vouch records.
//
// Each (guild, target) pair is an independent unit of consistency: the same
// user may be vouched separately in different guilds, and operations on
// different keys never interfere. Operations on the same key are serialized
// so two concurrent Appends can never both pass the duplicate check - the
// in-memory store holds a per-record lock, Postgres relies on a unique
// constraint, and Redis runs a WATCH-based compare-and-swap loop.
package store

import (
	"context"
	"fmt"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

// Store is the persistence port for vouch record sets.
//
// Append fails with an error wrapping sentinel.ErrAlreadyUsed when the
// voucher already has an entry for the target; the stored set is unchanged
// and returned as-is. Remove is idempotent; removed reports whether an entry
// was actually deleted, decided under the same per-key serialization as
// Append so two racing retractions cannot both observe a deletion. All
// operations return the resulting set. Backend I/O faults come back wrapping
// sentinel.ErrUnavailable without internal retries; callers decide whether
// to retry the command.
type Store interface {
	Get(ctx context.Context, guild domain.GuildID, target domain.UserID) (models.RecordSet, error)
	Append(ctx context.Context, guild domain.GuildID, target domain.UserID, v models.Vouch) (models.RecordSet, error)
	Remove(ctx context.Context, guild domain.GuildID, target domain.UserID, voucher domain.UserID) (models.RecordSet, bool, error)
}

// unavailable tags a backend I/O failure so callers can classify storage
// faults with errors.Is(err, sentinel.ErrUnavailable).
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
}
