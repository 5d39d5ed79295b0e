package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Setenv("DISCORD_VOUCHED_ROLE_ID", "800000000000000001")
		t.Setenv("DISCORD_PUBLIC_KEY", "ab")
	}

	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, DefaultPromotionThreshold, cfg.PromotionThreshold)
	})

	t.Run("threshold override", func(t *testing.T) {
		setRequired(t)
		t.Setenv("VOUCH_PROMOTION_THRESHOLD", "3")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.PromotionThreshold)
	})

	t.Run("rejects non-positive threshold", func(t *testing.T) {
		setRequired(t)
		t.Setenv("VOUCH_PROMOTION_THRESHOLD", "0")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("rejects missing role id", func(t *testing.T) {
		t.Setenv("DISCORD_VOUCHED_ROLE_ID", "")
		t.Setenv("DISCORD_PUBLIC_KEY", "ab")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("requires public key unless validation skipped", func(t *testing.T) {
		t.Setenv("DISCORD_VOUCHED_ROLE_ID", "800000000000000001")
		t.Setenv("DISCORD_PUBLIC_KEY", "")
		_, err := FromEnv()
		assert.Error(t, err)

		t.Setenv("SKIP_DISCORD_VALIDATION", "true")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.SkipDiscordValidation)
	})
}
