// Package vouch implements the vouching workflow: who may vouch for whom,
// when enough vouches add up to a promotion, and the orchestration of role
// lookups, the vouch store, and the role grant for one command.
package vouch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/sync/errgroup"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/metrics"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/ports"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/store"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/requestcontext"
)

// maxReasonLen bounds the free-text reason. Discord option values cap well
// above this; the bound is the bot's own sanity limit.
const maxReasonLen = 512

// Service orchestrates vouch commands end-to-end. It holds no cross-request
// state: each invocation performs exactly one store mutation and at most one
// role grant, with no internal retries. Re-delivery of the same command is
// safe because the store's duplicate guard makes the mutation idempotent.
type Service struct {
	store     store.Store
	roles     ports.RoleClient
	roleID    domain.RoleID
	threshold int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the vouch service. The store, role client, trusted role id,
// and a positive threshold are all required.
func New(st store.Store, roles ports.RoleClient, roleID domain.RoleID, threshold int, logger *slog.Logger, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("vouch store is required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role client is required")
	}
	if roleID.IsNil() {
		return nil, fmt.Errorf("vouched role id is required")
	}
	if threshold < 1 {
		return nil, fmt.Errorf("promotion threshold must be positive, got %d", threshold)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     st,
		roles:     roles,
		roleID:    roleID,
		threshold: threshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Threshold returns the configured promotion threshold.
func (s *Service) Threshold() int { return s.threshold }

// VouchRequest is one inbound vouch command, already parsed and typed by the
// transport layer.
type VouchRequest struct {
	GuildID     domain.GuildID
	RequesterID domain.UserID
	TargetID    domain.UserID
	Reason      string
}

// HandleVouch runs one vouch command: gather role facts, apply policy,
// record the vouch, and attempt promotion when the threshold is met. Every
// failure mode resolves into an Outcome; errors never escape to transport.
func (s *Service) HandleVouch(ctx context.Context, req VouchRequest) Outcome {
	requestID := requestcontext.RequestID(ctx)

	// Role facts for requester and target are independent lookups.
	var requesterTrusted, targetTrusted bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		requesterTrusted, err = s.roles.HasRole(gctx, req.GuildID, req.RequesterID, s.roleID)
		return err
	})
	g.Go(func() (err error) {
		targetTrusted, err = s.roles.HasRole(gctx, req.GuildID, req.TargetID, s.roleID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "role lookup failed",
			"request_id", requestID,
			"guild_id", req.GuildID,
			"requester_id", req.RequesterID,
			"error", err,
		)
		return s.reject(RejectTransient)
	}

	if err := CanVouch(req.RequesterID, req.TargetID, requesterTrusted, targetTrusted); err != nil {
		return s.reject(rejectReasonFor(err))
	}

	reason := strings.TrimSpace(req.Reason)
	if !govalidator.StringLength(reason, "1", fmt.Sprint(maxReasonLen)) {
		return s.reject(RejectInvalidReason)
	}

	set, err := s.store.Append(ctx, req.GuildID, req.TargetID, models.Vouch{
		VoucherID: req.RequesterID,
		Reason:    reason,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return s.reject(RejectAlreadyVouched)
		}
		s.logger.ErrorContext(ctx, "vouch append failed",
			"request_id", requestID,
			"guild_id", req.GuildID,
			"target_id", req.TargetID,
			"error", err,
		)
		return s.reject(RejectTransient)
	}

	s.metrics.IncrementAccepted()
	s.logger.InfoContext(ctx, "vouch recorded",
		"request_id", requestID,
		"guild_id", req.GuildID,
		"requester_id", req.RequesterID,
		"target_id", req.TargetID,
		"vouch_count", set.Count(),
	)

	if !ShouldPromote(set, s.threshold) {
		return Outcome{Kind: OutcomeBelowThreshold, Vouches: set}
	}

	// The vouch stays recorded even if the grant fails; promotion is
	// re-attempted by any later vouch at or above the threshold.
	if err := s.roles.GrantRole(ctx, req.GuildID, req.TargetID, s.roleID); err != nil {
		s.metrics.IncrementPromotionFails()
		s.logger.ErrorContext(ctx, "role grant failed",
			"request_id", requestID,
			"guild_id", req.GuildID,
			"target_id", req.TargetID,
			"error", err,
		)
		return Outcome{Kind: OutcomePromotionFailed, Vouches: set, GrantStatus: err.Error()}
	}

	s.metrics.IncrementPromotions()
	s.logger.InfoContext(ctx, "target promoted",
		"request_id", requestID,
		"guild_id", req.GuildID,
		"target_id", req.TargetID,
		"vouch_count", set.Count(),
	)
	return Outcome{Kind: OutcomePromotionSucceeded, Vouches: set}
}

// HandleList returns the current record set for a target.
func (s *Service) HandleList(ctx context.Context, guild domain.GuildID, target domain.UserID) (models.RecordSet, error) {
	set, err := s.store.Get(ctx, guild, target)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("list vouches: %w", err)
	}
	return set, nil
}

// HandleRetract removes the requester's own vouch for target. Idempotent;
// removed reports whether an entry actually existed, as decided by the store
// under its per-key serialization so two racing retractions cannot both
// claim the deletion.
func (s *Service) HandleRetract(ctx context.Context, guild domain.GuildID, requester, target domain.UserID) (models.RecordSet, bool, error) {
	set, removed, err := s.store.Remove(ctx, guild, target, requester)
	if err != nil {
		return models.RecordSet{}, false, fmt.Errorf("retract vouch: %w", err)
	}
	if removed {
		s.metrics.IncrementRemoved()
		s.logger.InfoContext(ctx, "vouch retracted",
			"request_id", requestcontext.RequestID(ctx),
			"guild_id", guild,
			"requester_id", requester,
			"target_id", target,
		)
	}
	return set, removed, nil
}

func (s *Service) reject(reason RejectReason) Outcome {
	s.metrics.IncrementRejected(string(reason))
	return rejected(reason)
}

func rejectReasonFor(err error) RejectReason {
	switch {
	case errors.Is(err, ErrNotEligible):
		return RejectNotEligible
	case errors.Is(err, ErrSelfVouch):
		return RejectSelfVouch
	case errors.Is(err, ErrAlreadyPromoted):
		return RejectAlreadyPromoted
	default:
		return RejectTransient
	}
}
