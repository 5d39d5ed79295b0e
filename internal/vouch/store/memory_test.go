package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

const (
	testGuild  = domain.GuildID("900000000000000001")
	testTarget = domain.UserID("100000000000000099")
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func voucher(i int) domain.UserID {
	return domain.UserID(fmt.Sprintf("10000000000000000%d", i))
}

func (s *MemoryStoreSuite) TestGetAndAppend() {
	s.Run("missing record reads as empty set", func() {
		set, err := s.store.Get(s.ctx, testGuild, testTarget)
		s.Require().NoError(err)
		s.Equal(0, set.Count())
	})

	s.Run("appends preserve insertion order", func() {
		for i := 0; i < 5; i++ {
			_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{
				VoucherID: voucher(i),
				Reason:    fmt.Sprintf("reason %d", i),
			})
			s.Require().NoError(err)
		}

		set, err := s.store.Get(s.ctx, testGuild, testTarget)
		s.Require().NoError(err)
		s.Require().Equal(5, set.Count())
		for i, v := range set.Vouches {
			s.Equal(voucher(i), v.VoucherID)
			s.Equal(fmt.Sprintf("reason %d", i), v.Reason)
		}
	})
}

func (s *MemoryStoreSuite) TestDuplicateVoucher() {
	first := models.Vouch{VoucherID: voucher(1), Reason: "helpful"}
	set, err := s.store.Append(s.ctx, testGuild, testTarget, first)
	s.Require().NoError(err)
	s.Equal(1, set.Count())

	// Same voucher again, even with a different reason, is rejected and the
	// stored set is unchanged.
	set, err = s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "changed my mind"})
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	s.Equal(1, set.Count())
	s.Equal("helpful", set.Vouches[0].Reason)

	stored, err := s.store.Get(s.ctx, testGuild, testTarget)
	s.Require().NoError(err)
	s.Equal(1, stored.Count())
}

func (s *MemoryStoreSuite) TestRemove() {
	s.Run("removing from a missing record is a no-op success", func() {
		set, removed, err := s.store.Remove(s.ctx, testGuild, testTarget, voucher(1))
		s.Require().NoError(err)
		s.False(removed)
		s.Equal(0, set.Count())
	})

	s.Run("removes only the named voucher", func() {
		for i := 0; i < 3; i++ {
			_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(i), Reason: "r"})
			s.Require().NoError(err)
		}

		set, removed, err := s.store.Remove(s.ctx, testGuild, testTarget, voucher(1))
		s.Require().NoError(err)
		s.True(removed)
		s.Require().Equal(2, set.Count())
		s.Equal(voucher(0), set.Vouches[0].VoucherID)
		s.Equal(voucher(2), set.Vouches[1].VoucherID)
	})

	s.Run("removing a voucher twice reports the second as a no-op", func() {
		_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(7), Reason: "r"})
		s.Require().NoError(err)

		set, removed, err := s.store.Remove(s.ctx, testGuild, testTarget, voucher(7))
		s.Require().NoError(err)
		s.True(removed)
		before := set.Count()

		set, removed, err = s.store.Remove(s.ctx, testGuild, testTarget, voucher(7))
		s.Require().NoError(err)
		s.False(removed)
		s.Equal(before, set.Count())
	})
}

// TestConcurrentRemove verifies the removed flag is decided under the record
// lock: N racing retractions of the same vouch see exactly one deletion.
func (s *MemoryStoreSuite) TestConcurrentRemove() {
	const goroutines = 20

	_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "r"})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	var removedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, removed, err := s.store.Remove(s.ctx, testGuild, testTarget, voucher(1))
			if s.NoError(err) && removed {
				removedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), removedCount.Load(), "exactly one retraction should observe the deletion")
}

func (s *MemoryStoreSuite) TestKeyIndependence() {
	otherGuild := domain.GuildID("900000000000000002")
	otherTarget := domain.UserID("100000000000000098")

	_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "a"})
	s.Require().NoError(err)

	// Same voucher+target in a different guild is an independent record.
	_, err = s.store.Append(s.ctx, otherGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "b"})
	s.Require().NoError(err)

	// Different target in the same guild likewise.
	_, err = s.store.Append(s.ctx, testGuild, otherTarget, models.Vouch{VoucherID: voucher(1), Reason: "c"})
	s.Require().NoError(err)

	set, err := s.store.Get(s.ctx, testGuild, testTarget)
	s.Require().NoError(err)
	s.Equal(1, set.Count())
	s.Equal("a", set.Vouches[0].Reason)
}

// TestConcurrentDuplicateAppend verifies the lost-update guarantee: N racing
// appends from the same voucher commit exactly once.
func (s *MemoryStoreSuite) TestConcurrentDuplicateAppend() {
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, duplicateCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "race"})
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				duplicateCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one append should win")
	s.Equal(int32(goroutines-1), duplicateCount.Load(), "all others should see the duplicate error")

	set, err := s.store.Get(s.ctx, testGuild, testTarget)
	s.Require().NoError(err)
	s.Equal(1, set.Count())
}

func (s *MemoryStoreSuite) TestSnapshotIsolation() {
	_, err := s.store.Append(s.ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "r"})
	s.Require().NoError(err)

	set, err := s.store.Get(s.ctx, testGuild, testTarget)
	s.Require().NoError(err)
	set.Vouches[0].Reason = "tampered"

	stored, err := s.store.Get(s.ctx, testGuild, testTarget)
	s.Require().NoError(err)
	s.Equal("r", stored.Vouches[0].Reason)
}
