package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

const renderTarget = domain.UserID("100000000000000002")

func TestRenderVouchOutcome(t *testing.T) {
	twoVouches := models.RecordSet{Vouches: []models.Vouch{
		{VoucherID: "100000000000000001", Reason: "helpful"},
		{VoucherID: "100000000000000003", Reason: "great contributor"},
	}}

	t.Run("rejections are ephemeral", func(t *testing.T) {
		for _, reason := range []vouch.RejectReason{
			vouch.RejectNotEligible,
			vouch.RejectSelfVouch,
			vouch.RejectAlreadyPromoted,
			vouch.RejectAlreadyVouched,
			vouch.RejectInvalidReason,
			vouch.RejectTransient,
		} {
			resp := RenderVouchOutcome(vouch.Outcome{Kind: vouch.OutcomeRejected, Reason: reason}, renderTarget, 2)
			assert.Equal(t, ResponseTypeChannelMessageWithSource, resp.Type, reason)
			assert.Equal(t, FlagEphemeral, resp.Data.Flags, reason)
			assert.NotEmpty(t, resp.Data.Content, reason)
		}
	})

	t.Run("below threshold reports progress publicly", func(t *testing.T) {
		one := models.RecordSet{Vouches: twoVouches.Vouches[:1]}
		resp := RenderVouchOutcome(vouch.Outcome{Kind: vouch.OutcomeBelowThreshold, Vouches: one}, renderTarget, 2)
		assert.Zero(t, resp.Data.Flags)
		assert.Contains(t, resp.Data.Content, "1 of 2")
	})

	t.Run("promotion lists every vouch", func(t *testing.T) {
		resp := RenderVouchOutcome(vouch.Outcome{Kind: vouch.OutcomePromotionSucceeded, Vouches: twoVouches}, renderTarget, 2)
		assert.Contains(t, resp.Data.Content, "<@100000000000000002>")
		assert.Contains(t, resp.Data.Content, "helpful")
		assert.Contains(t, resp.Data.Content, "great contributor")
	})

	t.Run("grant failure still announces the recorded vouch", func(t *testing.T) {
		resp := RenderVouchOutcome(vouch.Outcome{Kind: vouch.OutcomePromotionFailed, Vouches: twoVouches, GrantStatus: "status 403"}, renderTarget, 2)
		assert.Contains(t, resp.Data.Content, "failed")
	})
}

func TestRenderVouchList(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		resp := RenderVouchList(models.RecordSet{}, renderTarget)
		assert.Contains(t, resp.Data.Content, "no vouches")
	})

	t.Run("non-empty set", func(t *testing.T) {
		set := models.RecordSet{Vouches: []models.Vouch{{VoucherID: "100000000000000001", Reason: "helpful"}}}
		resp := RenderVouchList(set, renderTarget)
		assert.Contains(t, resp.Data.Content, "1 vouch")
		assert.Contains(t, resp.Data.Content, "helpful")
	})
}
