package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

// InMemory implements Store with process-local state. Suitable for local
// runs and tests; records do not survive a restart.
//
// Serialization is scoped to the record, not the map: the outer mutex only
// guards record lookup/creation, and each record carries its own lock for
// the read-modify-write window. Appends for different targets proceed in
// parallel.
type InMemory struct {
	mu      sync.RWMutex
	records map[recordKey]*record
}

type recordKey struct {
	guild  domain.GuildID
	target domain.UserID
}

type record struct {
	mu      sync.Mutex
	vouches []models.Vouch
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[recordKey]*record)}
}

func (s *InMemory) Get(_ context.Context, guild domain.GuildID, target domain.UserID) (models.RecordSet, error) {
	s.mu.RLock()
	rec := s.records[recordKey{guild, target}]
	s.mu.RUnlock()
	if rec == nil {
		return models.RecordSet{}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return snapshot(rec.vouches), nil
}

func (s *InMemory) Append(_ context.Context, guild domain.GuildID, target domain.UserID, v models.Vouch) (models.RecordSet, error) {
	rec := s.getOrCreate(recordKey{guild, target})

	rec.mu.Lock()
	defer rec.mu.Unlock()

	for _, existing := range rec.vouches {
		if existing.VoucherID == v.VoucherID {
			return snapshot(rec.vouches), fmt.Errorf("voucher %s already vouched for %s: %w", v.VoucherID, target, sentinel.ErrAlreadyUsed)
		}
	}
	rec.vouches = append(rec.vouches, v)
	return snapshot(rec.vouches), nil
}

func (s *InMemory) Remove(_ context.Context, guild domain.GuildID, target domain.UserID, voucher domain.UserID) (models.RecordSet, bool, error) {
	s.mu.RLock()
	rec := s.records[recordKey{guild, target}]
	s.mu.RUnlock()
	if rec == nil {
		return models.RecordSet{}, false, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	removed := false
	kept := rec.vouches[:0]
	for _, existing := range rec.vouches {
		if existing.VoucherID == voucher {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	rec.vouches = kept
	return snapshot(rec.vouches), removed, nil
}

func (s *InMemory) getOrCreate(key recordKey) *record {
	s.mu.RLock()
	rec := s.records[key]
	s.mu.RUnlock()
	if rec != nil {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec = s.records[key]; rec == nil {
		rec = &record{}
		s.records[key] = rec
	}
	return rec
}

// snapshot copies the slice so callers never alias store-owned state.
// Callers must hold the record lock.
func snapshot(vouches []models.Vouch) models.RecordSet {
	out := make([]models.Vouch, len(vouches))
	copy(out, vouches)
	return models.RecordSet{Vouches: out}
}
