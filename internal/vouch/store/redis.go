package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

// Redis persists each record set as a JSON blob under one key. Mutations run
// inside a WATCH/MULTI optimistic transaction: if another writer touches the
// key between read and write the transaction aborts and the read-modify-write
// is retried, so concurrent duplicate appends cannot both commit.
//
// The retry loop only covers WATCH conflicts; I/O failures surface
// immediately, wrapped in sentinel.ErrUnavailable.
type Redis struct {
	client *redis.Client
}

// maxCASRetries bounds the optimistic-retry loop. Contention on a single
// target is bursts of a few writers at most; hitting the bound means
// something is systematically wrong and the error should surface.
const maxCASRetries = 5

// NewRedis constructs a Redis-backed vouch store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func recordSetKey(guild domain.GuildID, target domain.UserID) string {
	return fmt.Sprintf("vouches:%s:%s", guild, target)
}

func (s *Redis) Get(ctx context.Context, guild domain.GuildID, target domain.UserID) (models.RecordSet, error) {
	data, err := s.client.Get(ctx, recordSetKey(guild, target)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.RecordSet{}, nil
	}
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("get vouches: %w", unavailable(err))
	}
	return decodeRecordSet(data)
}

func (s *Redis) Append(ctx context.Context, guild domain.GuildID, target domain.UserID, v models.Vouch) (models.RecordSet, error) {
	var result models.RecordSet
	err := s.mutate(ctx, recordSetKey(guild, target), func(set models.RecordSet) (models.RecordSet, error) {
		if set.Has(v.VoucherID) {
			result = set
			return set, fmt.Errorf("voucher %s already vouched for %s: %w", v.VoucherID, target, sentinel.ErrAlreadyUsed)
		}
		set.Vouches = append(set.Vouches, v)
		result = set
		return set, nil
	})
	return result, err
}

func (s *Redis) Remove(ctx context.Context, guild domain.GuildID, target domain.UserID, voucher domain.UserID) (models.RecordSet, bool, error) {
	var result models.RecordSet
	var removed bool
	err := s.mutate(ctx, recordSetKey(guild, target), func(set models.RecordSet) (models.RecordSet, error) {
		// fn reruns on WATCH conflicts, so the flag is recomputed from the
		// freshly read set each attempt.
		removed = false
		kept := make([]models.Vouch, 0, len(set.Vouches))
		for _, existing := range set.Vouches {
			if existing.VoucherID == voucher {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		set.Vouches = kept
		result = set
		return set, nil
	})
	return result, removed, err
}

// mutate runs fn inside a WATCH-guarded read-modify-write. fn receives the
// current set and returns the set to persist; returning an error aborts the
// write without retrying (domain failures like duplicates are final).
func (s *Redis) mutate(ctx context.Context, key string, fn func(models.RecordSet) (models.RecordSet, error)) error {
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read vouches: %w", err)
		}

		set := models.RecordSet{Vouches: []models.Vouch{}}
		if len(data) > 0 {
			if set, err = decodeRecordSet(data); err != nil {
				return err
			}
		}

		updated, err := fn(set)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode vouches: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for range maxCASRetries {
		err := s.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return err
		default:
			return unavailable(err)
		}
	}
	return unavailable(fmt.Errorf("vouch record for %s kept changing after %d attempts", key, maxCASRetries))
}

func decodeRecordSet(data []byte) (models.RecordSet, error) {
	var set models.RecordSet
	if err := json.Unmarshal(data, &set); err != nil {
		return models.RecordSet{}, fmt.Errorf("decode vouches: %w", err)
	}
	if set.Vouches == nil {
		set.Vouches = []models.Vouch{}
	}
	return set, nil
}
